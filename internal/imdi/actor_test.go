package imdi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

func person(id string, fields map[string]imdix.Value, langs ...imdix.SpokenLanguage) *imdix.Folder {
	if fields == nil {
		fields = map[string]imdix.Value{}
	}
	return &imdix.Folder{Kind: imdix.KindPerson, ID: id, Fields: fields, Languages: langs}
}

func actorNamed(t *testing.T, actors []*xmlnode.Node, name, role string) *xmlnode.Node {
	t.Helper()
	for _, a := range actors {
		if a.Find("Name").Text() == name && a.Find("Role").Text() == role {
			return a
		}
	}
	require.Failf(t, "actor not found", "%s as %s", name, role)
	return nil
}

func TestActors_DedupedAcrossSessionAndFiles(t *testing.T) {
	p := newProject()
	p.Persons = []*imdix.Folder{person("Ana", nil), person("Ben", nil)}

	s := newSession("s1", &imdix.File{
		Path: "/p/s1/a.wav",
		Contributions: []imdix.Contribution{
			{PersonReference: "ana", Role: "Speaker"},
			{PersonReference: "Ana", Role: "recorder"},
			{PersonReference: "Zed", Role: "participant"},
		},
	})
	s.Contributions = []imdix.Contribution{
		{PersonReference: "Ana", Role: "speaker"},
		{PersonReference: "Ana", Role: "speaker"},
		{PersonReference: "Ben", Role: "consultant"},
		{PersonReference: "  ", Role: "speaker"},
	}

	g, sink := newGenerator(p, imdix.ModeIMDI, imdix.VariantIMDI)
	actors := generate(t, g, s).Find("Session/MDGroup/Actors")

	list := actors.Elements("Actor")
	require.Len(t, list, 4)
	assert.Equal(t, "Ana", list[0].Find("Name").Text())
	assert.Equal(t, "Ben", list[1].Find("Name").Text())
	assert.Equal(t, "recorder", list[2].Find("Role").Text())
	assert.Equal(t, "Zed", list[3].Find("Name").Text())

	children := actors.Children()
	require.Len(t, children, 5)
	assert.True(t, children[3].IsComment(), "unknown contributor is annotated")
	assert.Contains(t, children[3].Text(), "Zed")
	assert.Len(t, sink.containing(`"Zed"`), 1)

	role := list[0].Find("Role")
	assert.Equal(t, "http://www.mpi.nl/IMDI/Schema/Actor-Role.xml", attr(t, role, "Link"))
}

func TestActor_ElementOrder(t *testing.T) {
	p := newProject()
	p.Persons = []*imdix.Folder{person("Ana", map[string]imdix.Value{
		"fullName":     imdix.Plain("Ana Kaluli"),
		"howToContact": imdix.Plain("Box 12, Kikori"),
		"description":  imdix.Plain("Village elder"),
	})}
	s := newSession("s1")
	s.Contributions = []imdix.Contribution{{PersonReference: "Ana", Role: "speaker", Comments: "Main narrator"}}

	g, _ := newGenerator(p, imdix.ModeIMDI, imdix.VariantIMDI)
	actor := generate(t, g, s).Find("Session/MDGroup/Actors/Actor")

	assert.Equal(t, []string{
		"Role", "Name", "FullName", "Code", "FamilySocialRole", "Languages", "EthnicGroup",
		"Age", "BirthDate", "Sex", "Education", "Anonymized", "Contact", "Keys",
		"Description", "Description",
	}, names(actor.Elements("")))
	assert.Equal(t, "Ana Kaluli", actor.Find("FullName").Text())
	assert.Equal(t, "Box 12, Kikori", actor.Find("Contact/Address").Text())
	assert.Equal(t, []string{"Village elder", "Main narrator"}, texts(actor.Elements("Description")))
	assert.Equal(t, "false", actor.Find("Anonymized").Text())
}

func TestActor_BirthYear(t *testing.T) {
	tests := []struct {
		name      string
		birthYear string
		wantDate  string
		wantAge   string
	}{
		{"exact", "1990", "1990", "34"},
		{"approximate", "~1960", "1959/1961", "63-65"},
		{"approximate with space", "~ 1980", "1979/1981", "43-45"},
		{"empty", "", imdix.Unspecified, imdix.Unspecified},
		{"unparseable", "about 1960", imdix.Unspecified, imdix.Unspecified},
		{"future", "2030", "2030", imdix.Unspecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject()
			p.Persons = []*imdix.Folder{person("Ana", map[string]imdix.Value{"birthYear": imdix.Plain(tt.birthYear)})}
			s := newSession("s1")
			s.Contributions = []imdix.Contribution{{PersonReference: "Ana", Role: "speaker"}}

			g, _ := newGenerator(p, imdix.ModeIMDI, imdix.VariantIMDI)
			actor := generate(t, g, s).Find("Session/MDGroup/Actors/Actor")

			assert.Equal(t, tt.wantDate, actor.Find("BirthDate").Text())
			assert.Equal(t, tt.wantAge, actor.Find("Age").Text())
		})
	}
}

func TestActor_ApproximateBirthYearWarnsOncePerRun(t *testing.T) {
	p := newProject()
	p.Persons = []*imdix.Folder{
		person("Ana", map[string]imdix.Value{"birthYear": imdix.Plain("~1960")}),
		person("Ben", map[string]imdix.Value{"birthYear": imdix.Plain("~1980")}),
		person("Cy", map[string]imdix.Value{"birthYear": imdix.Plain("sixties")}),
		person("Di", map[string]imdix.Value{"birthYear": imdix.Plain("?")}),
	}
	g, sink := newGenerator(p, imdix.ModeIMDI, imdix.VariantIMDI)

	for _, id := range []string{"s1", "s2", "s3"} {
		s := newSession(id)
		for _, who := range []string{"Ana", "Ben", "Cy", "Di"} {
			s.Contributions = append(s.Contributions, imdix.Contribution{PersonReference: who, Role: "speaker"})
		}
		root := generate(t, g, s)
		actors := root.FindAll("Session/MDGroup/Actors/Actor")
		assert.Equal(t, "1959/1961", actorNamed(t, actors, "Ana", "speaker").Find("BirthDate").Text())
		assert.Equal(t, "1979/1981", actorNamed(t, actors, "Ben", "speaker").Find("BirthDate").Text())
	}

	assert.Len(t, sink.containing("approximate"), 1)
	// unparseable years warn per person (and per document; the collector dedupes)
	assert.Len(t, sink.containing(`"sixties"`), 3)
	assert.Len(t, sink.containing(`Di: birth year "?"`), 3)
}

func TestActor_Gender(t *testing.T) {
	tests := map[string]string{
		"male":      "Male",
		"Female":    "Female",
		"UNKNOWN":   "Unknown",
		"":          imdix.Unspecified,
		"nonbinary": imdix.Unspecified,
	}
	for in, want := range tests {
		assert.Equal(t, want, gender(in), "gender(%q)", in)
	}
}

func TestActor_LanguagesAndKeys(t *testing.T) {
	p := newProject()
	p.Persons = []*imdix.Folder{person("Ana",
		map[string]imdix.Value{
			"primaryOccupation": imdix.Plain("farmer"),
			"notes":             imdix.Plain("do not export"),
			"mothersLanguage":   imdix.Plain("etr"),
			"gender":            imdix.Plain("female"),
		},
		imdix.SpokenLanguage{Code: "etr", Primary: true, Mother: true},
		imdix.SpokenLanguage{Code: "tpi", Mother: true, Father: true},
		imdix.SpokenLanguage{Code: "eng"},
	)}
	s := newSession("s1")
	s.Contributions = []imdix.Contribution{{PersonReference: "Ana", Role: "speaker"}}

	g, _ := newGenerator(p, imdix.ModeIMDI, imdix.VariantIMDI)
	actor := generate(t, g, s).Find("Session/MDGroup/Actors/Actor")

	langs := actor.FindAll("Languages/Language")
	require.Len(t, langs, 3)
	assert.Equal(t, "ISO639-3:etr", langs[0].Find("Id").Text())
	assert.Equal(t, "Edolo", langs[0].Find("Name").Text())
	assert.Equal(t, "true", langs[0].Find("PrimaryLanguage").Text())
	assert.Equal(t, "Also spoken by mother.", langs[0].Find("Description").Text())
	assert.Equal(t, "Also spoken by mother and father.", langs[1].Find("Description").Text())
	assert.Nil(t, langs[2].Find("Description"))
	assert.Equal(t, "false", langs[2].Find("PrimaryLanguage").Text())

	assert.Equal(t, "Female", actor.Find("Sex").Text())

	keys := actor.FindAll("Keys/Key")
	require.Len(t, keys, 1)
	assert.Equal(t, "primaryOccupation", attr(t, keys[0], "Name"))
}
