// Package stringsfile implements reading and writing of Apple .strings
// localization tables.
//
// Format: one entry per line,
//
//	"KEY" = "Value";
//
// Files live in per-locale directories next to the app sources:
//
//	Resources/en.lproj/Localizable.strings   (app strings)
//	Resources/en.lproj/InfoPlist.strings     (Info.plist overrides)
//
// The platform historically expects these files in UTF-16 with a byte-order
// mark, so Marshal transcodes the text before returning it.
package stringsfile

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Families
// ---------------------------------------------------------------------------

// Family identifies one of the two string tables produced per locale.
type Family int

const (
	// FamilyPlist holds Info.plist keys such as CFBundleDisplayName.
	FamilyPlist Family = iota
	// FamilyApp holds strings looked up by the app at runtime.
	FamilyApp
)

// Families lists all families in the order the descriptor is updated.
var Families = []Family{FamilyApp, FamilyPlist}

// Filename returns the on-disk name of the table. It is also the name of the
// variant group that collects the per-locale copies in the Xcode project.
func (f Family) Filename() string {
	switch f {
	case FamilyPlist:
		return "InfoPlist.strings"
	case FamilyApp:
		return "Localizable.strings"
	}
	return fmt.Sprintf("Family(%d).strings", int(f))
}

func (f Family) String() string { return f.Filename() }

// RecordPath returns the locale-relative path of a generated table,
// e.g. "en.lproj/Localizable.strings".
func RecordPath(locale string, f Family) string {
	return LprojName(locale) + "/" + f.Filename()
}

// LprojName returns the localization directory name for a locale tag.
func LprojName(locale string) string {
	return locale + ".lproj"
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Table is an ordered collection of entries with unique keys.
type Table struct {
	entries []Entry
	index   map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set adds or replaces a value. A replaced key keeps its original position.
func (t *Table) Set(key, value string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[key]; ok {
		t.entries[i].Value = value
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key.
func (t *Table) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[key]
	if !ok {
		return "", false
	}
	return t.entries[i].Value, true
}

// Entries returns the entries in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Empty reports whether the table has no entries.
func (t *Table) Empty() bool { return t.Len() == 0 }

// ---------------------------------------------------------------------------
// Escaping
// ---------------------------------------------------------------------------

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

var unescaper = strings.NewReplacer(
	`\\`, `\`,
	`\"`, `"`,
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
)

// Escape quotes a key or value for the .strings syntax.
func Escape(s string) string { return escaper.Replace(s) }

// Unescape reverses Escape.
func Unescape(s string) string { return unescaper.Replace(s) }
