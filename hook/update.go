package hook

import (
	"path"
	"strings"

	"github.com/minios-linux/lproj/pbxproj"
	"github.com/minios-linux/lproj/stringsfile"
)

// resourcesPrefix anchors generated files under the Resources group.
const resourcesPrefix = "Resources/"

// Records holds the generated file records per family, e.g.
// FamilyApp -> ["en.lproj/Localizable.strings", "fr.lproj/Localizable.strings"].
type Records map[stringsfile.Family][]string

// UpdateResult describes what UpdateProject changed.
type UpdateResult struct {
	// CreatedGroups lists the variant groups that did not exist before.
	CreatedGroups []string
	// Added lists the records that received a new file reference.
	Added []string
}

// Changed reports whether the descriptor was modified.
func (r UpdateResult) Changed() bool {
	return len(r.CreatedGroups) > 0 || len(r.Added) > 0
}

// UpdateProject registers every record in its family's variant group,
// creating the group when needed. Records already referenced by path are
// left alone, so running it twice adds nothing the second time.
func UpdateProject(proj *pbxproj.Project, records Records) UpdateResult {
	var res UpdateResult
	for _, f := range stringsfile.Families {
		updateFamily(proj, f.Filename(), records[f], &res)
	}
	return res
}

func updateFamily(proj *pbxproj.Project, groupName string, paths []string, res *UpdateResult) {
	if len(paths) == 0 {
		return
	}

	refs := proj.FileReferences()

	groupKey := proj.FindVariantGroupKey(groupName)
	if groupKey == "" {
		groupKey = proj.AddLocalizationVariantGroup(groupName)
		res.CreatedGroups = append(res.CreatedGroups, groupName)
	}

	for _, record := range paths {
		if isReferenced(refs, record) {
			continue
		}
		locale := strings.TrimSuffix(path.Dir(record), ".lproj")
		if _, added := proj.AddResourceFile(resourcesPrefix+record, locale, groupKey); added {
			res.Added = append(res.Added, record)
		}
	}
}

func isReferenced(refs []pbxproj.FileReference, record string) bool {
	for _, ref := range refs {
		p := strings.Trim(ref.Path, `"'`)
		if p == record || p == resourcesPrefix+record {
			return true
		}
	}
	return false
}
