package translation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/minios-linux/lproj/stringsfile"
)

func TestParse_PreservesOrderAndPresence(t *testing.T) {
	doc, err := Parse([]byte(`{
  "app": {"B": "second", "A": "first", "B": "again"},
  "config_ios": {"CFBundleDisplayName": "Demo"},
  "other": {"ignored": true}
}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if got, want := doc.App.Keys(), []string{"B", "A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("App keys = %v, want %v", got, want)
	}
	if v, _ := doc.App.Get("B"); v != "again" {
		t.Fatalf("App[B] = %q, want again", v)
	}
	if v, _ := doc.ConfigIOS.Get("CFBundleDisplayName"); v != "Demo" {
		t.Fatalf("ConfigIOS[CFBundleDisplayName] = %q", v)
	}
	if doc.Locales != nil {
		t.Fatalf("Locales = %v, want nil", doc.Locales)
	}
}

func TestParse_AbsentAndNullMembers(t *testing.T) {
	doc, err := Parse([]byte(`{"app": null}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if doc.App != nil || doc.ConfigIOS != nil {
		t.Fatalf("expected nil tables, got app=%v config_ios=%v", doc.App, doc.ConfigIOS)
	}
	if out := doc.Outputs("en"); len(out) != 0 {
		t.Fatalf("Outputs = %v, want none", out)
	}
}

func TestParse_ScalarValues(t *testing.T) {
	doc, err := Parse([]byte(`{"app": {"N": 1.5, "T": true, "F": false, "Z": null}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := map[string]string{"N": "1.5", "T": "true", "F": "false", "Z": "null"}
	for k, w := range want {
		if v, _ := doc.App.Get(k); v != w {
			t.Errorf("App[%s] = %q, want %q", k, v, w)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"app": {"A": "x"`},
		{"trailing garbage", `{"app": {}} }`},
		{"app not object", `{"app": "hello"}`},
		{"nested value", `{"app": {"A": {"B": "c"}}}`},
		{"array value", `{"config_ios": {"A": ["x"]}}`},
		{"locale not list", `{"locale": {"ios": "en"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Fatalf("expected error for %s", tc.data)
			}
		})
	}
}

func TestOutputs_LocaleFallback(t *testing.T) {
	doc, err := Parse([]byte(`{"app": {"GREETING": "Hi"}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	out := doc.Outputs("en")
	if len(out) != 1 {
		t.Fatalf("expected 1 output, got %d", len(out))
	}
	if out[0].Locale != "en" || out[0].Family != stringsfile.FamilyApp {
		t.Fatalf("unexpected output %+v", out[0])
	}
	if out[0].Record() != "en.lproj/Localizable.strings" {
		t.Fatalf("Record() = %q", out[0].Record())
	}
}

func TestOutputs_LocaleOverride(t *testing.T) {
	doc, err := Parse([]byte(`{"locale": {"ios": ["en", "en-GB"]}, "app": {"GREETING": "Hi"}, "config_ios": {"X": "y"}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var got []string
	for _, o := range doc.Outputs("english") {
		got = append(got, o.Record())
	}
	want := []string{
		"en.lproj/InfoPlist.strings",
		"en.lproj/Localizable.strings",
		"en-GB.lproj/InfoPlist.strings",
		"en-GB.lproj/Localizable.strings",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %v, want %v", got, want)
	}
}

func TestOutputs_EmptyOverrideFallsBack(t *testing.T) {
	doc, err := Parse([]byte(`{"locale": {"ios": []}, "app": {"A": "b"}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := doc.Targets("fr"); !reflect.DeepEqual(got, []string{"fr"}) {
		t.Fatalf("Targets = %v, want [fr]", got)
	}
}

func TestOutputs_EmptyMapsSkipped(t *testing.T) {
	doc, err := Parse([]byte(`{"app": {}, "config_ios": {"CFBundleDisplayName": "Demo"}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	out := doc.Outputs("de")
	if len(out) != 1 || out[0].Family != stringsfile.FamilyPlist {
		t.Fatalf("Outputs = %+v, want only the InfoPlist table", out)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fr.json", "en.json", "notes.txt", ".hidden.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	sources, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	want := []Source{
		{Lang: "en", Path: filepath.Join(dir, "en.json")},
		{Lang: "fr", Path: filepath.Join(dir, "fr.json")},
	}
	if !reflect.DeepEqual(sources, want) {
		t.Fatalf("Discover = %v, want %v", sources, want)
	}
}

func TestDiscover_MissingDirIsEmpty(t *testing.T) {
	sources, err := Discover(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("Discover = %v, want none", sources)
	}
}

func TestDiscover_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Discover(file); err == nil {
		t.Fatal("expected error when scanning a regular file")
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
