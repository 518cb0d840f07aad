package stringsfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ---------------------------------------------------------------------------
// Encodings
// ---------------------------------------------------------------------------

// DefaultEncoding is the encoding name used when none is configured.
const DefaultEncoding = "utf-16"

var encodings = map[string]encoding.Encoding{
	"utf-16":   unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-8":    unicode.UTF8,
}

// EncodingNames lists the accepted encoding names.
var EncodingNames = []string{"utf-16", "utf-16le", "utf-16be", "utf-8"}

// LookupEncoding resolves an encoding name. The empty name selects
// DefaultEncoding.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q (valid: %s)", name, strings.Join(EncodingNames, ", "))
	}
	return enc, nil
}

// Options controls how tables are serialized.
type Options struct {
	// Encoding of the output bytes. Nil means UTF-16 LE with a byte-order mark.
	Encoding encoding.Encoding
	// Escape enables backslash escaping of quotes, backslashes and control
	// characters. When false, keys and values are written verbatim.
	Escape bool
}

func (o Options) encoding() encoding.Encoding {
	if o.Encoding == nil {
		return encodings[DefaultEncoding]
	}
	return o.Encoding
}

// ---------------------------------------------------------------------------
// Marshal / Parse
// ---------------------------------------------------------------------------

// Marshal renders the table as `"key" = "value";` lines and encodes the
// result. Output is deterministic for a given table.
func Marshal(t *Table, opts Options) ([]byte, error) {
	var b strings.Builder
	for _, e := range t.Entries() {
		key, value := e.Key, e.Value
		if opts.Escape {
			key, value = Escape(key), Escape(value)
		}
		b.WriteString(`"`)
		b.WriteString(key)
		b.WriteString(`" = "`)
		b.WriteString(value)
		b.WriteString("\";\n")
	}

	out, err := opts.encoding().NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("encoding strings table: %w", err)
	}
	return out, nil
}

var (
	reLineVerbatim = regexp.MustCompile(`^"(.*?)"\s*=\s*"(.*)";$`)
	reLineEscaped  = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"\s*=\s*"((?:[^"\\]|\\.)*)";$`)
)

// Parse decodes and parses .strings content. A byte-order mark in data takes
// precedence over opts.Encoding. Blank lines and comment lines are skipped.
func Parse(data []byte, opts Options) (*Table, error) {
	dec := unicode.BOMOverride(opts.encoding().NewDecoder())
	text, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("decoding strings table: %w", err)
	}

	re := reLineVerbatim
	if opts.Escape {
		re = reLineEscaped
	}

	t := NewTable()
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimSuffix(sc.Text(), "\r"))
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") {
			continue
		}
		m := re.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: unrecognized entry %q", lineNo, line)
		}
		key, value := m[1], m[2]
		if opts.Escape {
			key, value = Unescape(key), Unescape(value)
		}
		t.Set(key, value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFile reads and parses a .strings file.
func ParseFile(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile serializes t into <resourcesDir>/<locale>.lproj/<family file>,
// creating the locale directory when needed and truncating any existing
// file. It returns the path written.
func WriteFile(resourcesDir, locale string, f Family, t *Table, opts Options) (string, error) {
	data, err := Marshal(t, opts)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(resourcesDir, LprojName(locale))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, f.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
