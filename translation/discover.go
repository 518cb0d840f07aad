package translation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the translations directory relative to the project root.
const DefaultDir = "translations/app"

// Source is one discovered translation file.
type Source struct {
	// Lang is the filename stem, e.g. "en" for en.json.
	Lang string
	// Path is the absolute file path.
	Path string
}

// Discover lists the *.json files directly inside dir. A missing directory
// yields no sources. Results are in filename order.
func Discover(dir string) ([]Source, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", absDir, err)
	}

	var sources []Source
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		lang := strings.TrimSuffix(name, ".json")
		if lang == "" {
			continue
		}
		sources = append(sources, Source{
			Lang: lang,
			Path: filepath.Join(absDir, name),
		})
	}
	return sources, nil
}
