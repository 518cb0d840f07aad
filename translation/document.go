// Package translation reads the per-language JSON files that feed the iOS
// string tables and decides which tables each file produces.
//
// The expected file format is:
//
//	{
//	    "locale": { "ios": ["en", "en-GB"] },
//	    "config_ios": { "CFBundleDisplayName": "My App" },
//	    "app": { "GREETING": "Hello" }
//	}
//
// All three members are optional. Without locale.ios the file applies to the
// language named by its filename (en.json -> "en").
package translation

import (
	"bytes"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/minios-linux/lproj/stringsfile"
)

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            false,
	ValidateJsonRawMessage: false,
	CaseSensitive:          true,
}.Froze()

// Document is a validated translation file.
type Document struct {
	// App holds the "app" strings. Nil when the member is absent or null.
	App *stringsfile.Table
	// ConfigIOS holds the "config_ios" strings. Nil when absent or null.
	ConfigIOS *stringsfile.Table
	// Locales is the "locale.ios" override list. Nil when absent.
	Locales []string
}

type rawDocument struct {
	App       jsoniter.RawMessage `json:"app"`
	ConfigIOS jsoniter.RawMessage `json:"config_ios"`
	Locale    *struct {
		IOS []string `json:"ios"`
	} `json:"locale"`
}

// ParseFile reads and parses a translation file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses translation JSON. Key order inside "app" and "config_ios" is
// preserved; a repeated key keeps its first position and its last value.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	doc := &Document{}
	var err error
	if doc.App, err = decodeTable("app", raw.App); err != nil {
		return nil, err
	}
	if doc.ConfigIOS, err = decodeTable("config_ios", raw.ConfigIOS); err != nil {
		return nil, err
	}
	if raw.Locale != nil {
		doc.Locales = raw.Locale.IOS
	}
	return doc, nil
}

// decodeTable reads a flat JSON object into a table, keeping document order.
func decodeTable(field string, raw []byte) (*stringsfile.Table, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	iter := json.BorrowIterator(raw)
	defer json.ReturnIterator(iter)

	if next := iter.WhatIsNext(); next != jsoniter.ObjectValue {
		return nil, fmt.Errorf("%s: expected object, got %s", field, kindName(next))
	}

	t := stringsfile.NewTable()
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		value, err := readScalar(it)
		if err != nil {
			it.ReportError(field, fmt.Sprintf("key %q: %v", key, err))
			return false
		}
		t.Set(key, value)
		return true
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, fmt.Errorf("%s: %w", field, iter.Error)
	}
	return t, nil
}

// readScalar returns a JSON scalar as text. Numbers keep their literal form;
// booleans and null become "true", "false" and "null".
func readScalar(it *jsoniter.Iterator) (string, error) {
	switch next := it.WhatIsNext(); next {
	case jsoniter.StringValue:
		return it.ReadString(), nil
	case jsoniter.NumberValue:
		return string(it.ReadNumber()), nil
	case jsoniter.BoolValue:
		if it.ReadBool() {
			return "true", nil
		}
		return "false", nil
	case jsoniter.NilValue:
		it.ReadNil()
		return "null", nil
	default:
		it.Skip()
		return "", fmt.Errorf("%s values are not supported", kindName(next))
	}
}

func kindName(v jsoniter.ValueType) string {
	switch v {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	}
	return "invalid JSON"
}

// ---------------------------------------------------------------------------
// Interpretation
// ---------------------------------------------------------------------------

// Output is one string table to be written for a locale.
type Output struct {
	Locale string
	Family stringsfile.Family
	Table  *stringsfile.Table
}

// Record returns the locale-relative path of the generated file.
func (o Output) Record() string {
	return stringsfile.RecordPath(o.Locale, o.Family)
}

// Targets returns the locales the document is emitted under: the locale.ios
// list when it is non-empty, otherwise lang alone.
func (d *Document) Targets(lang string) []string {
	if len(d.Locales) > 0 {
		return d.Locales
	}
	return []string{lang}
}

// Outputs returns the tables to write, per target locale: the InfoPlist table
// first, then the Localizable table. Empty tables are skipped.
func (d *Document) Outputs(lang string) []Output {
	var out []Output
	for _, locale := range d.Targets(lang) {
		if !d.ConfigIOS.Empty() {
			out = append(out, Output{Locale: locale, Family: stringsfile.FamilyPlist, Table: d.ConfigIOS})
		}
		if !d.App.Empty() {
			out = append(out, Output{Locale: locale, Family: stringsfile.FamilyApp, Table: d.App})
		}
	}
	return out
}
