package bundle

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vvka-141/imdix/internal/schema"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

var referenceDate = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

// fakeValidator accepts everything unless reject matches the document.
type fakeValidator struct {
	mu     sync.Mutex
	calls  int
	reject func(document string) (schema.Result, bool)
	err    error
}

func (v *fakeValidator) Validate(_ context.Context, document string) (schema.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.err != nil {
		return schema.Result{}, v.err
	}
	if v.reject != nil {
		if result, rejected := v.reject(document); rejected {
			return result, nil
		}
	}
	return schema.Result{Valid: true}, nil
}

func file(path string, tags ...string) *imdix.File {
	return &imdix.File{Path: path, Size: 10, Tags: tags}
}

func person(id, fullName string, files ...*imdix.File) *imdix.Folder {
	return &imdix.Folder{
		Kind:      imdix.KindPerson,
		ID:        id,
		Directory: "/p/Edolo/People/" + id,
		Fields:    map[string]imdix.Value{"fullName": imdix.Plain(fullName)},
		Files:     files,
	}
}

func session(id string, contributions []imdix.Contribution, files ...*imdix.File) *imdix.Folder {
	return &imdix.Folder{
		Kind:          imdix.KindSession,
		ID:            id,
		Directory:     "/p/Edolo/Sessions/" + id,
		Fields:        map[string]imdix.Value{"title": imdix.Plain("Session " + id), "date": imdix.Plain("2024-03-09")},
		Files:         files,
		Contributions: contributions,
	}
}

func contribution(ref, role string) imdix.Contribution {
	return imdix.Contribution{PersonReference: ref, Role: role}
}

// edolo has three persons; Awi and Bale have consent forms, Cal does not.
func edolo() *imdix.Project {
	return &imdix.Project{
		Folder: imdix.Folder{
			Kind:      imdix.KindProject,
			ID:        "Edolo",
			Directory: "/p/Edolo",
			Fields:    map[string]imdix.Value{"title": imdix.Plain("Edolo Documentation")},
		},
		DirectoryName: "Edolo",
		Persons: []*imdix.Folder{
			person("Awi", "Awi Heole",
				file("/p/Edolo/People/Awi/Awi.person"),
				file("/p/Edolo/People/Awi/Awi_Consent.pdf", "consent"),
				file("/p/Edolo/People/Awi/Awi_Photo.jpg")),
			person("Bale", "Bale Kiri",
				file("/p/Edolo/People/Bale/Bale_Consent.mp3", "Consent")),
			person("Cal", "Cal Ruwa",
				file("/p/Edolo/People/Cal/Cal_Photo.jpg")),
		},
		Sessions: []*imdix.Folder{
			session("ETR009", []imdix.Contribution{
				contribution("Awi Heole", "speaker"),
				contribution("Bale", "recorder"),
				contribution("Cal", "speaker"),
			},
				file("/p/Edolo/Sessions/ETR009/ETR009.session"),
				file("/p/Edolo/Sessions/ETR009/ETR009_Tiny.mp3"),
				file("/p/Edolo/Sessions/ETR009/Field notes.txt")),
			session("ETR010", []imdix.Contribution{contribution("Cal", "speaker")},
				file("/p/Edolo/Sessions/ETR010/ETR010.wav")),
		},
		OtherDocuments: &imdix.Folder{
			Kind:      imdix.KindDocuments,
			ID:        imdix.OtherDocumentsFolderName,
			Directory: "/p/Edolo/OtherDocuments",
			Files:     []*imdix.File{file("/p/Edolo/OtherDocuments/map.png")},
		},
		DescriptionDocuments: &imdix.Folder{
			Kind:      imdix.KindDocuments,
			ID:        imdix.DescriptionDocumentsFolderName,
			Directory: "/p/Edolo/DescriptionDocuments",
			Files:     []*imdix.File{file("/p/Edolo/DescriptionDocuments/grammar.pdf.meta")},
		},
	}
}

func newOrchestrator(p *imdix.Project, v DocumentValidator, opts Options) *Orchestrator {
	if opts.OutputRoot == "" {
		opts.OutputRoot = "/out"
	}
	opts.ReferenceDate = referenceDate
	return New(p, v, opts)
}

// drain runs the sequence to the end.
func drain(t *testing.T, o *Orchestrator) ([]*imdix.ExportUnit, *imdix.CorpusUnit) {
	t.Helper()
	var units []*imdix.ExportUnit
	for {
		step, err := o.Next(context.Background())
		require.NoError(t, err)
		if step.Last() {
			return units, step.Corpus
		}
		require.NotNil(t, step.Unit)
		units = append(units, step.Unit)
	}
}

func parse(t *testing.T, document string) *xmlnode.Node {
	t.Helper()
	root, err := xmlnode.Parse(strings.NewReader(document))
	require.NoError(t, err)
	return root
}

func displayNames(units []*imdix.ExportUnit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.DisplayName)
	}
	return out
}

// recordedWarnings collects what the orchestrator reports.
type recordedWarnings struct {
	messages []string
}

func (r *recordedWarnings) Warn(msg string) {
	r.messages = append(r.messages, msg)
}
