package pbxproj

import (
	"fmt"
	"os"
	"strings"
)

// inlineISA lists object types Xcode writes on a single line.
var inlineISA = map[string]bool{
	"PBXBuildFile":     true,
	"PBXFileReference": true,
}

type writer struct {
	b strings.Builder
}

func (w *writer) indent(n int) {
	for i := 0; i < n; i++ {
		w.b.WriteByte('\t')
	}
}

func (w *writer) atom(a *Atom) {
	w.b.WriteString(a.Raw)
	if a.Comment != "" {
		w.b.WriteString(" /* ")
		w.b.WriteString(a.Comment)
		w.b.WriteString(" */")
	}
}

func (w *writer) value(v Value, depth int, inline bool) {
	switch v := v.(type) {
	case *Atom:
		w.atom(v)
	case *Dict:
		w.dict(v, depth, inline)
	case *Array:
		w.array(v, depth, inline)
	}
}

func (w *writer) dict(d *Dict, depth int, inline bool) {
	if inline {
		w.b.WriteByte('{')
		for _, e := range d.Entries {
			w.atom(e.Key)
			w.b.WriteString(" = ")
			w.value(e.Value, depth, true)
			w.b.WriteString("; ")
		}
		w.b.WriteByte('}')
		return
	}

	w.b.WriteString("{\n")
	for _, e := range d.Entries {
		w.indent(depth + 1)
		w.atom(e.Key)
		w.b.WriteString(" = ")
		if obj, ok := e.Value.(*Dict); ok && depth == 0 && e.Key.String() == "objects" {
			w.objects(obj, depth+1)
		} else {
			w.value(e.Value, depth+1, false)
		}
		w.b.WriteString(";\n")
	}
	w.indent(depth)
	w.b.WriteByte('}')
}

func (w *writer) array(a *Array, depth int, inline bool) {
	if inline {
		w.b.WriteByte('(')
		for _, item := range a.Items {
			w.value(item, depth, true)
			w.b.WriteString(", ")
		}
		w.b.WriteByte(')')
		return
	}

	w.b.WriteString("(\n")
	for _, item := range a.Items {
		w.indent(depth + 1)
		w.value(item, depth+1, false)
		w.b.WriteString(",\n")
	}
	w.indent(depth)
	w.b.WriteByte(')')
}

// objects writes the objects dictionary with one Begin/End block per run of
// objects sharing an isa.
func (w *writer) objects(d *Dict, depth int) {
	w.b.WriteString("{\n")
	section := ""
	for _, e := range d.Entries {
		isa := entryISA(e)
		if isa != section {
			if section != "" {
				fmt.Fprintf(&w.b, "/* End %s section */\n", section)
			}
			if isa != "" {
				fmt.Fprintf(&w.b, "\n/* Begin %s section */\n", isa)
			}
			section = isa
		}
		w.indent(depth + 1)
		w.atom(e.Key)
		w.b.WriteString(" = ")
		w.value(e.Value, depth+1, inlineISA[isa])
		w.b.WriteString(";\n")
	}
	if section != "" {
		fmt.Fprintf(&w.b, "/* End %s section */\n", section)
	}
	w.indent(depth)
	w.b.WriteByte('}')
}

func entryISA(e *Entry) string {
	if body, ok := e.Value.(*Dict); ok {
		return body.GetString("isa")
	}
	return ""
}

// Marshal renders the project in Xcode's layout.
func (p *Project) Marshal() []byte {
	w := &writer{}
	if p.Header != "" {
		w.b.WriteString(p.Header)
		w.b.WriteByte('\n')
	}
	w.dict(p.Root, 0, false)
	w.b.WriteByte('\n')
	return []byte(w.b.String())
}

// WriteFile writes the project to path, replacing its content.
func (p *Project) WriteFile(path string) error {
	if err := os.WriteFile(path, p.Marshal(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
