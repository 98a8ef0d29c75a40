package bundle

import (
	"fmt"
	"strings"

	"github.com/vvka-141/imdix/internal/archivename"
	"github.com/vvka-141/imdix/internal/imdi"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// ConsentTag marks a person's file as a consent artifact.
const ConsentTag = "consent"

// consentFolder assembles the synthetic session that carries every consent
// file of the contributors to the given sessions. It returns nil when there
// is nothing to bundle.
//
// Contributions are read the way session documents list actors: the
// session's own plus those of its files. Actors are the unique (person,
// role) pairs among them. The staged files are copies of the person files
// with their contributions dropped, so only those pairs become actors. Paths still point
// at the originals, which are what the copy plan copies. Export names that
// collide across persons are prefixed with the person ID.
func consentFolder(p *imdix.Project, sessions []*imdix.Folder) *imdix.Folder {
	type pair struct{ person, role string }

	var (
		contributions []imdix.Contribution
		files         []*imdix.File
		seenPairs     = make(map[pair]bool)
		seenPersons   = make(map[*imdix.Folder]bool)
		usedNames     = make(map[string]bool)
	)

	for _, s := range sessions {
		for _, c := range s.AllContributions() {
			person, ok := p.FindPerson(c.PersonReference)
			if !ok {
				continue
			}
			consent := consentFiles(person)
			if len(consent) == 0 {
				continue
			}

			key := pair{strings.ToLower(person.ID), strings.ToLower(strings.TrimSpace(c.Role))}
			if !seenPairs[key] {
				seenPairs[key] = true
				contributions = append(contributions, imdix.Contribution{PersonReference: person.ID, Role: c.Role})
			}

			if seenPersons[person] {
				continue
			}
			seenPersons[person] = true
			for _, f := range consent {
				staged := *f
				staged.Contributions = nil
				staged.ExportAs = uniqueName(archivename.ExportName(f), person.ID, usedNames)
				files = append(files, &staged)
			}
		}
	}

	if len(files) == 0 {
		return nil
	}

	return &imdix.Folder{
		Kind: imdix.KindSession,
		ID:   imdix.ConsentFolderName,
		Fields: map[string]imdix.Value{
			"title":       imdix.Plain("Consent documents"),
			"description": imdix.Plain(fmt.Sprintf("Documentation of consent for the contributors to the %s project", projectName(p))),
		},
		Files:         files,
		Contributions: contributions,
	}
}

func consentFiles(person *imdix.Folder) []*imdix.File {
	var out []*imdix.File
	for _, f := range person.Files {
		if f.HasTag(ConsentTag) && imdi.Eligible(f) {
			out = append(out, f)
		}
	}
	return out
}

func uniqueName(name, personID string, used map[string]bool) string {
	candidate := name
	if used[candidate] {
		prefix := archivename.Sanitize(personID)
		candidate = prefix + "_" + name
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s_%d_%s", prefix, i, name)
		}
	}
	used[candidate] = true
	return candidate
}

func projectName(p *imdix.Project) string {
	if t := p.Text("title"); t != "" {
		return t
	}
	return p.DirectoryName
}
