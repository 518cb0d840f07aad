// Package hook is the build step that turns translations/app/*.json into
// iOS .strings tables and registers them in the Xcode project.
//
// The pipeline is strictly sequential: discover the JSON files, parse each
// one, write its tables, then load, update and save project.pbxproj once.
// The first error stops the run; tables written before it stay on disk.
package hook

import (
	"fmt"
	"os"

	"github.com/samber/lo"

	"github.com/minios-linux/lproj/config"
	"github.com/minios-linux/lproj/pbxproj"
	"github.com/minios-linux/lproj/stringsfile"
	"github.com/minios-linux/lproj/translation"
)

// Report summarizes a successful run.
type Report struct {
	// Sources are the translation files that were processed.
	Sources []translation.Source
	// Written lists every .strings file written, in write order.
	Written []string
	// Records are the generated file records per family, without duplicates.
	Records Records
	// Update describes the descriptor changes.
	Update UpdateResult
	// DescriptorPath is the project.pbxproj that was rewritten.
	DescriptorPath string
}

// LoadProject resolves the project configuration once, before Run.
func LoadProject(rootDir string, ov config.Overrides) (*config.Project, error) {
	proj, err := config.Load(rootDir, ov)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}
	return proj, nil
}

// Run executes the whole pipeline for proj.
func Run(proj *config.Project) (*Report, error) {
	sources, err := translation.Discover(proj.TranslationsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	report := &Report{
		Sources:        sources,
		Records:        Records{},
		DescriptorPath: proj.PBXProjPath(),
	}

	opts := proj.StringsOptions()
	for _, src := range sources {
		doc, err := readDocument(src)
		if err != nil {
			return nil, err
		}

		for _, out := range doc.Outputs(src.Lang) {
			written, err := stringsfile.WriteFile(proj.ResourcesDir(), out.Locale, out.Family, out.Table, opts)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrIO, err)
			}
			report.Written = append(report.Written, written)
			report.Records[out.Family] = append(report.Records[out.Family], out.Record())
		}
	}

	for f, paths := range report.Records {
		report.Records[f] = lo.Uniq(paths)
	}

	descriptor, err := pbxproj.ParseFile(report.DescriptorPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptorParse, err)
	}

	report.Update = UpdateProject(descriptor, report.Records)

	if err := descriptor.WriteFile(report.DescriptorPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptorWrite, err)
	}

	return report, nil
}

func readDocument(src translation.Source) (*translation.Document, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, src.Path, err)
	}
	doc, err := translation.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, src.Path, err)
	}
	return doc, nil
}
