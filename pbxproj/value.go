// Package pbxproj reads, edits and writes Xcode project descriptors
// (project.pbxproj).
//
// The file is an old-style ASCII property list with C comments:
//
//	// !$*UTF8*$!
//	{
//		archiveVersion = 1;
//		objects = {
//
//	/* Begin PBXFileReference section */
//			1D6058910D05DD3D006BFB54 /* HelloCordova.app */ = {isa = PBXFileReference; ...; };
//	/* End PBXFileReference section */
//		};
//		rootObject = 29B97313FDCFA39411CA2CEA /* Project object */;
//	}
//
// Parsing keeps key order, the raw text of every string and the comment
// that trails it, so writing an unmodified project reproduces Xcode's
// output byte for byte.
package pbxproj

import "strings"

// Value is one of *Atom, *Dict or *Array.
type Value interface {
	isValue()
}

// Atom is a string token. Raw is the text as it appears in the file,
// including surrounding quotes; Comment is the /* ... */ text that follows.
type Atom struct {
	Raw     string
	Comment string
}

// NewAtom returns an atom holding s, quoted when Xcode would quote it.
func NewAtom(s string) *Atom {
	return &Atom{Raw: Quote(s)}
}

// Ref returns an atom for an object ID with its trailing comment.
func Ref(id, comment string) *Atom {
	return &Atom{Raw: id, Comment: comment}
}

// String returns the unquoted value.
func (a *Atom) String() string {
	if a == nil {
		return ""
	}
	return Unquote(a.Raw)
}

// Entry is one key = value pair of a Dict.
type Entry struct {
	Key   *Atom
	Value Value
}

// Dict is an ordered dictionary.
type Dict struct {
	Entries []*Entry
}

// Array is an ordered list.
type Array struct {
	Items []Value
}

func (*Atom) isValue()  {}
func (*Dict) isValue()  {}
func (*Array) isValue() {}

// Index returns the position of key, or -1.
func (d *Dict) Index(key string) int {
	if d == nil {
		return -1
	}
	for i, e := range d.Entries {
		if e.Key.String() == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, or nil.
func (d *Dict) Get(key string) Value {
	if i := d.Index(key); i >= 0 {
		return d.Entries[i].Value
	}
	return nil
}

// GetAtom returns the atom stored under key, or nil if the key is missing or
// holds a dict or array.
func (d *Dict) GetAtom(key string) *Atom {
	a, _ := d.Get(key).(*Atom)
	return a
}

// GetString returns the unquoted string under key.
func (d *Dict) GetString(key string) string {
	return d.GetAtom(key).String()
}

// GetDict returns the dict under key, or nil.
func (d *Dict) GetDict(key string) *Dict {
	v, _ := d.Get(key).(*Dict)
	return v
}

// GetArray returns the array under key, or nil.
func (d *Dict) GetArray(key string) *Array {
	v, _ := d.Get(key).(*Array)
	return v
}

// Set replaces the value under key, or appends a new entry.
func (d *Dict) Set(key string, v Value) {
	if i := d.Index(key); i >= 0 {
		d.Entries[i].Value = v
		return
	}
	d.Entries = append(d.Entries, &Entry{Key: NewAtom(key), Value: v})
}

// SetString is Set with a plain string value.
func (d *Dict) SetString(key, value string) {
	d.Set(key, NewAtom(value))
}

// Append adds v to the end of the array.
func (a *Array) Append(v Value) {
	a.Items = append(a.Items, v)
}

// Contains reports whether the array holds an atom with the given value.
func (a *Array) Contains(s string) bool {
	if a == nil {
		return false
	}
	for _, item := range a.Items {
		if atom, ok := item.(*Atom); ok && atom.String() == s {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Quoting
// ---------------------------------------------------------------------------

func isBareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("_$/:.-", c) >= 0
}

// Quote returns s in the form Xcode writes it: bare when it only contains
// letters, digits and _$/:.- characters, otherwise double-quoted.
func Quote(s string) string {
	bare := s != "" && !strings.Contains(s, "//") && !strings.Contains(s, "___")
	for i := 0; bare && i < len(s); i++ {
		bare = isBareChar(s[i])
	}
	if bare {
		return s
	}

	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote strips surrounding double quotes and resolves escapes.
func Unquote(raw string) string {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return raw
	}
	s := raw[1 : len(raw)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
