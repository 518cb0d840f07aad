package pbxproj

import (
	"path"
	"strings"

	"github.com/gofrs/uuid"
)

// Project is a parsed project descriptor.
type Project struct {
	// Header is the leading "// !$*UTF8*$!" line, if any.
	Header string
	// Root is the top-level dictionary.
	Root *Dict

	// NewObjectID generates candidate object IDs. Nil uses random IDs.
	NewObjectID func() string
}

// FileReference is a PBXFileReference object.
type FileReference struct {
	ID   string
	Name string
	// Path is the unquoted path attribute.
	Path string
}

// Objects returns the objects dictionary.
func (p *Project) Objects() *Dict {
	return p.Root.GetDict("objects")
}

// Object returns the body of the object with the given ID, or nil.
func (p *Project) Object(id string) *Dict {
	return p.Objects().GetDict(id)
}

// Section returns the entries of all objects with the given isa, in file
// order.
func (p *Project) Section(isa string) []*Entry {
	var out []*Entry
	for _, e := range p.Objects().Entries {
		if entryISA(e) == isa {
			out = append(out, e)
		}
	}
	return out
}

// FileReferences returns all PBXFileReference objects.
func (p *Project) FileReferences() []FileReference {
	var refs []FileReference
	for _, e := range p.Section("PBXFileReference") {
		body := e.Value.(*Dict)
		refs = append(refs, FileReference{
			ID:   e.Key.String(),
			Name: body.GetString("name"),
			Path: body.GetString("path"),
		})
	}
	return refs
}

// HasFile reports whether a file reference with the given path exists.
func (p *Project) HasFile(filePath string) bool {
	for _, ref := range p.FileReferences() {
		if ref.Path == filePath {
			return true
		}
	}
	return false
}

// FindVariantGroupKey returns the ID of the PBXVariantGroup named name, or "".
func (p *Project) FindVariantGroupKey(name string) string {
	return p.findByName("PBXVariantGroup", name)
}

// FindGroupKey returns the ID of the PBXGroup named name, or "". Groups
// without a name attribute match on their path.
func (p *Project) FindGroupKey(name string) string {
	return p.findByName("PBXGroup", name)
}

func (p *Project) findByName(isa, name string) string {
	for _, e := range p.Section(isa) {
		body := e.Value.(*Dict)
		n := body.GetString("name")
		if n == "" {
			n = body.GetString("path")
		}
		if n == name {
			return e.Key.String()
		}
	}
	return ""
}

// MainGroupKey returns the ID of the project's main group, or "".
func (p *Project) MainGroupKey() string {
	return p.Object(p.Root.GetString("rootObject")).GetString("mainGroup")
}

// ResourcesBuildPhase returns the PBXResourcesBuildPhase of the first
// target, falling back to the first one in the file. Nil if there is none.
func (p *Project) ResourcesBuildPhase() *Dict {
	if target := p.Object(atomString(p.firstTarget())); target != nil {
		if phases := target.GetArray("buildPhases"); phases != nil {
			for _, item := range phases.Items {
				phase := p.Object(atomString(item))
				if phase.GetString("isa") == "PBXResourcesBuildPhase" {
					return phase
				}
			}
		}
	}
	if phases := p.Section("PBXResourcesBuildPhase"); len(phases) > 0 {
		return phases[0].Value.(*Dict)
	}
	return nil
}

func (p *Project) firstTarget() Value {
	root := p.Object(p.Root.GetString("rootObject"))
	if targets := root.GetArray("targets"); targets != nil && len(targets.Items) > 0 {
		return targets.Items[0]
	}
	return nil
}

func atomString(v Value) string {
	a, _ := v.(*Atom)
	return a.String()
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// GenerateID returns an object ID not yet used in the project: 24 upper-case
// hex digits.
func (p *Project) GenerateID() string {
	gen := p.NewObjectID
	if gen == nil {
		gen = randomID
	}
	for {
		id := gen()
		if p.Objects().Index(id) < 0 {
			return id
		}
	}
}

func randomID() string {
	u := uuid.Must(uuid.NewV4())
	return strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:24])
}

// AddObject inserts an object, keeping objects of the same isa together and
// sections in alphabetical order.
func (p *Project) AddObject(id, comment string, body *Dict) {
	objects := p.Objects()
	entry := &Entry{Key: Ref(id, comment), Value: body}
	isa := body.GetString("isa")

	at := len(objects.Entries)
	lastSame := -1
	for i, e := range objects.Entries {
		if entryISA(e) == isa {
			lastSame = i
		}
	}
	if lastSame >= 0 {
		at = lastSame + 1
	} else {
		for i, e := range objects.Entries {
			if other := entryISA(e); other != "" && other > isa {
				at = i
				break
			}
		}
	}

	objects.Entries = append(objects.Entries, nil)
	copy(objects.Entries[at+1:], objects.Entries[at:])
	objects.Entries[at] = entry
}

// AddToGroup appends a child reference to a PBXGroup or PBXVariantGroup.
// It reports false if the group does not exist.
func (p *Project) AddToGroup(groupKey, childID, comment string) bool {
	group := p.Object(groupKey)
	if group == nil {
		return false
	}
	children := group.GetArray("children")
	if children == nil {
		children = &Array{}
		group.Set("children", children)
	}
	children.Append(Ref(childID, comment))
	return true
}

// AddLocalizationVariantGroup creates a PBXVariantGroup named name, files it
// under the Resources group (or the main group), and bundles it through the
// resources build phase. It returns the new group's ID.
func (p *Project) AddLocalizationVariantGroup(name string) string {
	groupID := p.GenerateID()
	group := &Dict{}
	group.SetString("isa", "PBXVariantGroup")
	group.Set("children", &Array{})
	group.SetString("name", name)
	group.SetString("sourceTree", "<group>")
	p.AddObject(groupID, name, group)

	parent := p.FindGroupKey("Resources")
	if parent == "" {
		parent = p.MainGroupKey()
	}
	if parent != "" {
		p.AddToGroup(parent, groupID, name)
	}

	buildID := p.GenerateID()
	buildComment := name + " in Resources"
	buildFile := &Dict{}
	buildFile.SetString("isa", "PBXBuildFile")
	buildFile.Set("fileRef", Ref(groupID, name))
	p.AddObject(buildID, buildComment, buildFile)

	if phase := p.ResourcesBuildPhase(); phase != nil {
		files := phase.GetArray("files")
		if files == nil {
			files = &Array{}
			phase.Set("files", files)
		}
		files.Append(Ref(buildID, buildComment))
	}

	return groupID
}

// AddResourceFile adds a PBXFileReference for filePath and files it under
// groupKey. A leading "Resources/" is dropped when the Resources group has
// its own path, since the reference is then resolved relative to it. It
// returns the new reference, or false if the path is already referenced.
func (p *Project) AddResourceFile(filePath, name, groupKey string) (FileReference, bool) {
	filePath = p.correctForResourcesPath(filePath)
	if p.HasFile(filePath) {
		return FileReference{}, false
	}
	if name == "" {
		name = path.Base(filePath)
	}

	id := p.GenerateID()
	ref := &Dict{}
	ref.SetString("isa", "PBXFileReference")
	ref.SetString("lastKnownFileType", fileType(filePath))
	ref.SetString("name", name)
	ref.SetString("path", filePath)
	ref.SetString("sourceTree", "<group>")
	p.AddObject(id, name, ref)

	if groupKey != "" {
		p.AddToGroup(groupKey, id, name)
	}
	return FileReference{ID: id, Name: name, Path: filePath}, true
}

func (p *Project) correctForResourcesPath(filePath string) string {
	const prefix = "Resources/"
	key := p.FindGroupKey("Resources")
	if key == "" || !strings.HasPrefix(filePath, prefix) {
		return filePath
	}
	if p.Object(key).GetString("path") == "" {
		return filePath
	}
	return strings.TrimPrefix(filePath, prefix)
}

var fileTypes = map[string]string{
	".strings":     "text.plist.strings",
	".stringsdict": "text.plist.stringsdict",
	".plist":       "text.plist.xml",
	".json":        "text.json",
	".xib":         "file.xib",
	".storyboard":  "file.storyboard",
}

func fileType(filePath string) string {
	if t, ok := fileTypes[path.Ext(filePath)]; ok {
		return t
	}
	return "file"
}
