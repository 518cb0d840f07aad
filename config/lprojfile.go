// Package config resolves everything the hook needs to know about a project
// before any file is touched: where translations live, the native iOS
// project directory derived from config.xml, and the output options.
//
// An optional .lproj.yaml in the project root overrides the defaults:
//
//	translations_dir: translations/app
//	platform_dir: platforms/ios
//	name: MyApp            # skips config.xml
//	encoding: utf-16       # utf-16, utf-16le, utf-16be, utf-8
//	escape_values: false
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project settings file.
const FileName = ".lproj.yaml"

// File is the .lproj.yaml structure. Empty fields keep their defaults.
type File struct {
	// TranslationsDir holds the per-language JSON files, relative to the root.
	TranslationsDir string `yaml:"translations_dir,omitempty"`
	// PlatformDir is the generated iOS platform directory, relative to the root.
	PlatformDir string `yaml:"platform_dir,omitempty"`
	// Name overrides the app name read from config.xml.
	Name string `yaml:"name,omitempty"`
	// Encoding of the generated .strings files.
	Encoding string `yaml:"encoding,omitempty"`
	// EscapeValues turns on backslash escaping in .strings output.
	EscapeValues bool `yaml:"escape_values,omitempty"`
}

// LoadFile loads .lproj.yaml from rootDir. Returns nil if it does not exist.
func LoadFile(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// Save writes f as .lproj.yaml into rootDir.
func (f *File) Save(rootDir string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", FileName, err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
