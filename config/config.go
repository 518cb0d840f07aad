package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/minios-linux/lproj/stringsfile"
	"github.com/minios-linux/lproj/translation"
)

// DefaultPlatformDir is the Cordova iOS platform directory relative to the root.
const DefaultPlatformDir = "platforms/ios"

// WidgetFileName is the Cordova project configuration.
const WidgetFileName = "config.xml"

// Project is the fully resolved configuration for one run. It is computed
// once by Load and passed to every component that needs a path.
type Project struct {
	// Root is the absolute project root.
	Root string
	// Name is the application display name; it names the native project.
	Name string
	// ID and Version come from config.xml when it was read.
	ID      string
	Version string

	// TranslationsDir is the absolute directory with <lang>.json files.
	TranslationsDir string
	// PlatformDir is the absolute iOS platform directory.
	PlatformDir string

	// EncodingName is the configured .strings encoding.
	EncodingName string
	// Encoding is the resolved EncodingName.
	Encoding encoding.Encoding
	// EscapeValues enables .strings escaping.
	EscapeValues bool

	// SettingsFile is the .lproj.yaml path if one was loaded.
	SettingsFile string

	nameFromWidget bool
}

// Overrides are command-line values that take precedence over .lproj.yaml.
// Empty strings and nil pointers leave the setting alone.
type Overrides struct {
	TranslationsDir string
	PlatformDir     string
	Name            string
	Encoding        string
	EscapeValues    *bool
}

// Load resolves the project rooted at rootDir.
func Load(rootDir string, ov Overrides) (*Project, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	f, err := LoadFile(absRoot)
	if err != nil {
		return nil, err
	}

	p := &Project{Root: absRoot}
	settings := File{}
	if f != nil {
		settings = *f
		p.SettingsFile = filepath.Join(absRoot, FileName)
	}
	settings.apply(ov)

	p.TranslationsDir = resolve(absRoot, settings.TranslationsDir, translation.DefaultDir)
	p.PlatformDir = resolve(absRoot, settings.PlatformDir, DefaultPlatformDir)
	p.EscapeValues = settings.EscapeValues

	p.EncodingName = settings.Encoding
	if p.EncodingName == "" {
		p.EncodingName = stringsfile.DefaultEncoding
	}
	if p.Encoding, err = stringsfile.LookupEncoding(p.EncodingName); err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(settings.Name)
	if p.Name == "" {
		w, err := ReadWidget(filepath.Join(absRoot, WidgetFileName))
		if err != nil {
			return nil, err
		}
		p.Name, p.ID, p.Version = w.Name, w.ID, w.Version
		p.nameFromWidget = true
	}
	if strings.ContainsAny(p.Name, `/\`) {
		return nil, fmt.Errorf("app name %q cannot be used as a directory name", p.Name)
	}

	return p, nil
}

func (f *File) apply(ov Overrides) {
	if ov.TranslationsDir != "" {
		f.TranslationsDir = ov.TranslationsDir
	}
	if ov.PlatformDir != "" {
		f.PlatformDir = ov.PlatformDir
	}
	if ov.Name != "" {
		f.Name = ov.Name
	}
	if ov.Encoding != "" {
		f.Encoding = ov.Encoding
	}
	if ov.EscapeValues != nil {
		f.EscapeValues = *ov.EscapeValues
	}
}

func resolve(root, dir, def string) string {
	if dir == "" {
		dir = def
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

// ---------------------------------------------------------------------------
// config.xml
// ---------------------------------------------------------------------------

// Widget holds the fields of a Cordova config.xml that the hook uses.
type Widget struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
	Name    string `xml:"name"`
}

// ReadWidget reads and parses config.xml. The <name> element is required.
func ReadWidget(path string) (*Widget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var w Widget
	if err := xml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return nil, fmt.Errorf("%s: missing <name> element", path)
	}
	return &w, nil
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// NativeDir returns the app's source directory inside the platform, e.g.
// platforms/ios/MyApp.
func (p *Project) NativeDir() string {
	return filepath.Join(p.PlatformDir, p.Name)
}

// ResourcesDir returns the directory holding the <locale>.lproj folders.
func (p *Project) ResourcesDir() string {
	return filepath.Join(p.NativeDir(), "Resources")
}

// LprojDir returns the localization directory for a locale.
func (p *Project) LprojDir(locale string) string {
	return filepath.Join(p.ResourcesDir(), stringsfile.LprojName(locale))
}

// StringsPath returns the generated table path for a locale and family.
func (p *Project) StringsPath(locale string, f stringsfile.Family) string {
	return filepath.Join(p.LprojDir(locale), f.Filename())
}

// PBXProjPath returns the Xcode project descriptor path, e.g.
// platforms/ios/MyApp.xcodeproj/project.pbxproj.
func (p *Project) PBXProjPath() string {
	return filepath.Join(p.PlatformDir, p.Name+".xcodeproj", "project.pbxproj")
}

// StringsOptions returns the serializer options for this project.
func (p *Project) StringsOptions() stringsfile.Options {
	return stringsfile.Options{Encoding: p.Encoding, Escape: p.EscapeValues}
}

// Settings returns the effective settings as a .lproj.yaml structure with
// paths relative to the root where possible. The name is left out when it
// came from config.xml.
func (p *Project) Settings() *File {
	f := &File{
		TranslationsDir: p.rel(p.TranslationsDir),
		PlatformDir:     p.rel(p.PlatformDir),
		Encoding:        p.EncodingName,
		EscapeValues:    p.EscapeValues,
	}
	if !p.nameFromWidget {
		f.Name = p.Name
	}
	return f
}

func (p *Project) rel(path string) string {
	if r, err := filepath.Rel(p.Root, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return path
}
