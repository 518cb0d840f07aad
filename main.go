// lproj: Cordova iOS localization hook. Turns translations/app/*.json into
// <locale>.lproj string tables and registers them in the Xcode project.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/lproj/config"
	"github.com/minios-linux/lproj/hook"
	"github.com/minios-linux/lproj/i18n"
	"github.com/minios-linux/lproj/stringsfile"
	"github.com/minios-linux/lproj/translation"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprint(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+i18n.Tf(format, args...)+"\n")
}

func logSuccess(format string, args ...any) {
	fmt.Fprint(os.Stderr, colorGreen+"[OK]"+colorReset+" "+i18n.Tf(format, args...)+"\n")
}

func logWarning(format string, args ...any) {
	fmt.Fprint(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+i18n.Tf(format, args...)+"\n")
}

func logError(format string, args ...any) {
	fmt.Fprint(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+i18n.Tf(format, args...)+"\n")
}

// confirmation is printed to stdout after a successful run.
const confirmation = "new pbx project written with localization groups"

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// projectFlags are the settings overrides shared by run, status and init.
type projectFlags struct {
	translationsDir string
	platformDir     string
	name            string
	encoding        string
	escape          bool
}

func addProjectFlags(fs *pflag.FlagSet, f *projectFlags) {
	fs.StringVar(&f.translationsDir, "translations-dir", "", "Directory with <lang>.json files (default translations/app)")
	fs.StringVar(&f.platformDir, "platform-dir", "", "Cordova iOS platform directory (default platforms/ios)")
	fs.StringVar(&f.name, "name", "", "App name (default: <name> from config.xml)")
	fs.StringVar(&f.encoding, "encoding", "", "Encoding of .strings files: "+strings.Join(stringsfile.EncodingNames, ", "))
	fs.BoolVar(&f.escape, "escape", false, "Escape quotes, backslashes and control characters in .strings values")
}

// overrides converts the parsed flags. --escape only overrides the settings
// file when it was given explicitly.
func (f *projectFlags) overrides(fs *pflag.FlagSet) config.Overrides {
	ov := config.Overrides{
		TranslationsDir: f.translationsDir,
		PlatformDir:     f.platformDir,
		Name:            f.name,
		Encoding:        f.encoding,
	}
	if fs.Changed("escape") {
		escape := f.escape
		ov.EscapeValues = &escape
	}
	return ov
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lproj",
		Short: "Generate iOS .lproj string tables for a Cordova project",
		Long: `lproj: Cordova iOS localization hook.

Reads translations/app/<lang>.json, writes
platforms/ios/<Name>/Resources/<locale>.lproj/Localizable.strings and
InfoPlist.strings, and registers them in the Xcode project's
localization variant groups. Run it after "cordova prepare ios".

Commands:
  run       Generate string tables and update project.pbxproj
  status    Show resolved paths and discovered languages
  init      Write a .lproj.yaml with the effective settings`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Cordova project root directory")

	root.AddCommand(
		newRunCmd(),
		newStatusCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lproj version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// run (the hook)
// ---------------------------------------------------------------------------

func newRunCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate string tables and update project.pbxproj",
		Long: `Convert every translations/app/<lang>.json into .strings tables and
add them to the Localizable.strings and InfoPlist.strings variant groups.

A "locale.ios" list in a translation file names the locales it is written
for; otherwise the file name is used. Files that are already referenced in
the project are not added again, so the command is safe to repeat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := hook.LoadProject(rootDir, flags.overrides(cmd.Flags()))
			if err != nil {
				return err
			}
			return runHook(cmd, proj)
		},
	}

	addProjectFlags(cmd.Flags(), &flags)
	return cmd
}

func runHook(cmd *cobra.Command, proj *config.Project) error {
	logInfo("Generating localizations for %s", proj.Name)

	report, err := hook.Run(proj)
	if err != nil {
		return err
	}

	if len(report.Sources) == 0 {
		logWarning("No translation files in %s", proj.TranslationsDir)
	}
	for _, path := range report.Written {
		logSuccess("Wrote %s", relPath(proj.Root, path))
	}
	for _, group := range report.Update.CreatedGroups {
		logInfo("Created variant group %s", group)
	}
	if n := len(report.Update.Added); n > 0 {
		logInfo("%s", i18n.N("Added %d file reference", "Added %d file references", n))
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(confirmation))
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show resolved paths and discovered languages",
		Long: `Show the resolved project paths, every translation file with the
locales it targets, and the key count of each generated table.
Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := hook.LoadProject(rootDir, flags.overrides(cmd.Flags()))
			if err != nil {
				return err
			}
			return runStatus(proj)
		},
	}

	addProjectFlags(cmd.Flags(), &flags)
	return cmd
}

func runStatus(proj *config.Project) error {
	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Name:          %s\n", proj.Name)
	if proj.ID != "" {
		fmt.Fprintf(os.Stderr, "  ID:            %s\n", proj.ID)
	}
	if proj.Version != "" {
		fmt.Fprintf(os.Stderr, "  Version:       %s\n", proj.Version)
	}
	fmt.Fprintf(os.Stderr, "  Root:          %s\n", proj.Root)
	if proj.SettingsFile != "" {
		fmt.Fprintf(os.Stderr, "  Settings:      %s\n", relPath(proj.Root, proj.SettingsFile))
	}
	fmt.Fprintf(os.Stderr, "  Translations:  %s\n", relPath(proj.Root, proj.TranslationsDir))
	fmt.Fprintf(os.Stderr, "  Resources:     %s\n", relPath(proj.Root, proj.ResourcesDir()))
	fmt.Fprintf(os.Stderr, "  Descriptor:    %s%s\n", relPath(proj.Root, proj.PBXProjPath()), missingMark(proj.PBXProjPath()))
	fmt.Fprintf(os.Stderr, "  Encoding:      %s\n", proj.EncodingName)
	fmt.Fprintf(os.Stderr, "  Escape values: %t\n", proj.EscapeValues)

	sources, err := translation.Discover(proj.TranslationsDir)
	if err != nil {
		return fmt.Errorf("%w: %w", hook.ErrDiscovery, err)
	}

	fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Languages"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	if len(sources) == 0 {
		logWarning("No translation files in %s", proj.TranslationsDir)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%-10s %-24s %-12s %-12s\n", "Locale", "Language", "Localizable", "InfoPlist")
	for _, src := range sources {
		doc, err := translation.ParseFile(src.Path)
		if err != nil {
			logWarning("%s: %v", filepath.Base(src.Path), err)
			continue
		}
		for _, locale := range doc.Targets(src.Lang) {
			fmt.Fprintf(os.Stderr, "%-10s %-24s %-12s %-12s\n",
				locale,
				languageName(locale),
				tableSummary(proj, locale, stringsfile.FamilyApp),
				tableSummary(proj, locale, stringsfile.FamilyPlist))
		}
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// languageName returns the English display name of a locale tag, or "?"
// when the tag cannot be parsed.
func languageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "?"
	}
	if name := display.English.Tags().Name(t); name != "" {
		return name
	}
	return "?"
}

// tableSummary reports the key count of a generated table, or "-" when the
// table has not been generated.
func tableSummary(proj *config.Project, locale string, f stringsfile.Family) string {
	t, err := stringsfile.ParseFile(proj.StringsPath(locale, f), proj.StringsOptions())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "-"
		}
		return "invalid"
	}
	return i18n.N("%d key", "%d keys", t.Len())
}

func missingMark(path string) string {
	if _, err := os.Stat(path); err != nil {
		return " (" + i18n.T("missing") + ")"
	}
	return ""
}

// ---------------------------------------------------------------------------
// init (write .lproj.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		flags projectFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .lproj.yaml with the effective settings",
		Long: `Resolve the settings from config.xml, an existing .lproj.yaml and the
command-line flags, then write them to .lproj.yaml in the project root.
An existing file is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := hook.LoadProject(rootDir, flags.overrides(cmd.Flags()))
			if err != nil {
				return err
			}
			if proj.SettingsFile != "" && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", relPath(proj.Root, proj.SettingsFile))
			}

			if err := proj.Settings().Save(proj.Root); err != nil {
				return err
			}
			logSuccess("Wrote %s", config.FileName)
			return nil
		},
	}

	addProjectFlags(cmd.Flags(), &flags)
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .lproj.yaml")
	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func relPath(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}
