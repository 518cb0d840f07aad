package pbxproj

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadFixture(t *testing.T) (*Project, []byte) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "cordova.pbxproj"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	proj, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return proj, data
}

// sequentialIDs returns a deterministic ID generator.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("AAAAAAAAAAAAAAAAAAAA%04X", n)
	}
}

func TestMarshal_RoundTripIsByteExact(t *testing.T) {
	proj, data := loadFixture(t)
	out := proj.Marshal()
	if !bytes.Equal(out, data) {
		outLines := strings.Split(string(out), "\n")
		inLines := strings.Split(string(data), "\n")
		for i := 0; i < len(outLines) && i < len(inLines); i++ {
			if outLines[i] != inLines[i] {
				t.Fatalf("line %d differs:\n got  %q\n want %q", i+1, outLines[i], inLines[i])
			}
		}
		t.Fatalf("output length %d, want %d", len(out), len(data))
	}
}

func TestParse_Header(t *testing.T) {
	proj, _ := loadFixture(t)
	if proj.Header != "// !$*UTF8*$!" {
		t.Fatalf("Header = %q", proj.Header)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"unterminated dict", `{ objects = { };`},
		{"missing semicolon", `{ objects = { } }`},
		{"unterminated string", `{ a = "oops; objects = { }; }`},
		{"unterminated comment", `{ /* never closed`},
		{"no objects", `{ archiveVersion = 1; }`},
		{"trailing data", `{ objects = { }; } extra`},
		{"bad array", `{ objects = { }; a = (x y); }`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatalf("expected error for %q", tc.data)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %v is not a *SyntaxError", err)
			}
		})
	}
}

func TestQuoteUnquote(t *testing.T) {
	tests := []struct {
		in, raw string
	}{
		{"en.lproj/Localizable.strings", "en.lproj/Localizable.strings"},
		{"<group>", `"<group>"`},
		{"", `""`},
		{"Xcode 3.2", `"Xcode 3.2"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a//b", `"a//b"`},
		{"PBXVariantGroup", "PBXVariantGroup"},
	}
	for _, tc := range tests {
		if got := Quote(tc.in); got != tc.raw {
			t.Errorf("Quote(%q) = %q, want %q", tc.in, got, tc.raw)
		}
		if got := Unquote(tc.raw); got != tc.in {
			t.Errorf("Unquote(%q) = %q, want %q", tc.raw, got, tc.in)
		}
	}
}

func TestLookups(t *testing.T) {
	proj, _ := loadFixture(t)

	if got := proj.FindGroupKey("Resources"); got != "29B97317FDCFA39411CA2CEA" {
		t.Fatalf("FindGroupKey(Resources) = %q", got)
	}
	if got := proj.MainGroupKey(); got != "29B97314FDCFA39411CA2CEA" {
		t.Fatalf("MainGroupKey = %q", got)
	}
	if got := proj.FindVariantGroupKey("Localizable.strings"); got != "" {
		t.Fatalf("FindVariantGroupKey = %q, want empty", got)
	}
	if !proj.HasFile("HelloCordova/config.xml") {
		t.Fatal("HasFile(config.xml) = false")
	}
	if !proj.HasFile("HelloCordova/HelloCordova-Info.plist") {
		t.Fatal("HasFile should compare unquoted paths")
	}
	if n := len(proj.FileReferences()); n != 8 {
		t.Fatalf("FileReferences = %d, want 8", n)
	}
	phase := proj.ResourcesBuildPhase()
	if phase.GetString("isa") != "PBXResourcesBuildPhase" {
		t.Fatalf("ResourcesBuildPhase = %v", phase)
	}
}

func TestAddLocalizationVariantGroup(t *testing.T) {
	proj, _ := loadFixture(t)
	proj.NewObjectID = sequentialIDs()

	key := proj.AddLocalizationVariantGroup("Localizable.strings")
	if key != "AAAAAAAAAAAAAAAAAAAA0001" {
		t.Fatalf("group key = %q", key)
	}
	if got := proj.FindVariantGroupKey("Localizable.strings"); got != key {
		t.Fatalf("FindVariantGroupKey = %q, want %q", got, key)
	}

	resources := proj.Object(proj.FindGroupKey("Resources"))
	if !resources.GetArray("children").Contains(key) {
		t.Fatal("variant group not added to Resources group")
	}
	if !proj.ResourcesBuildPhase().GetArray("files").Contains("AAAAAAAAAAAAAAAAAAAA0002") {
		t.Fatal("build file not added to resources build phase")
	}
	buildFile := proj.Object("AAAAAAAAAAAAAAAAAAAA0002")
	if buildFile.GetString("isa") != "PBXBuildFile" || buildFile.GetString("fileRef") != key {
		t.Fatalf("unexpected build file %v", buildFile)
	}

	out := string(proj.Marshal())
	for _, want := range []string{
		"\t\tAAAAAAAAAAAAAAAAAAAA0002 /* Localizable.strings in Resources */ = {isa = PBXBuildFile; fileRef = AAAAAAAAAAAAAAAAAAAA0001 /* Localizable.strings */; };\n",
		"\n/* Begin PBXVariantGroup section */\n" +
			"\t\tAAAAAAAAAAAAAAAAAAAA0001 /* Localizable.strings */ = {\n" +
			"\t\t\tisa = PBXVariantGroup;\n" +
			"\t\t\tchildren = (\n" +
			"\t\t\t);\n" +
			"\t\t\tname = Localizable.strings;\n" +
			"\t\t\tsourceTree = \"<group>\";\n" +
			"\t\t};\n" +
			"/* End PBXVariantGroup section */\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing:\n%s", want)
		}
	}

	// The new section sorts between PBXSourcesBuildPhase and XCBuildConfiguration.
	if strings.Index(out, "Begin PBXVariantGroup") < strings.Index(out, "End PBXSourcesBuildPhase") ||
		strings.Index(out, "Begin PBXVariantGroup") > strings.Index(out, "Begin XCBuildConfiguration") {
		t.Fatal("PBXVariantGroup section out of order")
	}

	// Output still parses.
	if _, err := Parse([]byte(out)); err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
}

func TestAddResourceFile(t *testing.T) {
	proj, _ := loadFixture(t)
	proj.NewObjectID = sequentialIDs()
	group := proj.AddLocalizationVariantGroup("InfoPlist.strings")

	ref, added := proj.AddResourceFile("Resources/en.lproj/InfoPlist.strings", "en", group)
	if !added {
		t.Fatal("AddResourceFile reported not added")
	}
	// Resources group carries a path, so the prefix is dropped.
	if ref.Path != "en.lproj/InfoPlist.strings" || ref.Name != "en" {
		t.Fatalf("ref = %+v", ref)
	}
	if !proj.HasFile("en.lproj/InfoPlist.strings") {
		t.Fatal("HasFile after add = false")
	}
	if !proj.Object(group).GetArray("children").Contains(ref.ID) {
		t.Fatal("reference not added to variant group")
	}

	out := string(proj.Marshal())
	want := "\t\t" + ref.ID + " /* en */ = {isa = PBXFileReference; lastKnownFileType = text.plist.strings; name = en; path = en.lproj/InfoPlist.strings; sourceTree = \"<group>\"; };\n"
	if !strings.Contains(out, want) {
		t.Fatalf("output missing file reference line:\n%s", want)
	}

	if _, again := proj.AddResourceFile("Resources/en.lproj/InfoPlist.strings", "en", group); again {
		t.Fatal("second AddResourceFile should be a no-op")
	}
	if n := len(proj.Object(group).GetArray("children").Items); n != 1 {
		t.Fatalf("variant group children = %d, want 1", n)
	}
}

func TestAddResourceFile_KeepsPrefixWithoutResourcesPath(t *testing.T) {
	proj, err := Parse([]byte(`{
	objects = {
		G1 /* Resources */ = {isa = PBXGroup; children = (); name = Resources; sourceTree = "<group>"; };
	};
}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	ref, added := proj.AddResourceFile("Resources/fr.lproj/Localizable.strings", "fr", "G1")
	if !added || ref.Path != "Resources/fr.lproj/Localizable.strings" {
		t.Fatalf("ref = %+v added=%v", ref, added)
	}
}

func TestAddLocalizationVariantGroup_FallsBackToMainGroup(t *testing.T) {
	proj, err := Parse([]byte(`{
	objects = {
		M1 = {isa = PBXGroup; children = (); sourceTree = "<group>"; };
		P1 = {isa = PBXProject; mainGroup = M1; targets = (); };
	};
	rootObject = P1;
}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	key := proj.AddLocalizationVariantGroup("Localizable.strings")
	if !proj.Object("M1").GetArray("children").Contains(key) {
		t.Fatal("variant group not added to main group")
	}
}

func TestGenerateID_Unique(t *testing.T) {
	proj, _ := loadFixture(t)
	calls := 0
	proj.NewObjectID = func() string {
		calls++
		if calls == 1 {
			return "29B97317FDCFA39411CA2CEA" // taken by the Resources group
		}
		return "BBBBBBBBBBBBBBBBBBBBBBBB"
	}
	if id := proj.GenerateID(); id != "BBBBBBBBBBBBBBBBBBBBBBBB" {
		t.Fatalf("GenerateID = %q", id)
	}

	proj.NewObjectID = nil
	id := proj.GenerateID()
	if len(id) != 24 || strings.ToUpper(id) != id {
		t.Fatalf("random ID %q is not 24 upper-case hex digits", id)
	}
}

func TestWriteFile(t *testing.T) {
	proj, data := loadFixture(t)
	path := filepath.Join(t.TempDir(), "project.pbxproj")
	if err := proj.WriteFile(path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	again, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if !bytes.Equal(again.Marshal(), data) {
		t.Fatal("written file does not round-trip")
	}

	if err := proj.WriteFile(filepath.Join(t.TempDir(), "missing", "project.pbxproj")); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}
