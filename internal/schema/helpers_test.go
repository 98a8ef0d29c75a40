package schema

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sessionDocument = `<?xml version="1.0" encoding="UTF-8"?>
<METATRANSCRIPT xmlns="http://www.mpi.nl/IMDI/Schema/IMDI" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" Type="SESSION">
  <Session>
    <Name>s1</Name>
    <Title>Fishing</Title>
    <Date>2020-01-01</Date>
    <MDGroup>
      <Location>
        <Continent Link="http://www.mpi.nl/IMDI/Schema/Continents.xml" Type="ClosedVocabulary">Oceania</Continent>
        <Country Type="OpenVocabulary">Papua New Guinea</Country>
      </Location>
      <Actors>
        <Actor>
          <Role Type="OpenVocabularyList">Speaker</Role>
          <Name>Ana</Name>
          <BirthDate>1959/1961</BirthDate>
        </Actor>
      </Actors>
    </MDGroup>
    <Resources>
      <MediaFile><ResourceLink>s1/a.wav</ResourceLink></MediaFile>
      <WrittenResource><ResourceLink>s1/a.eaf</ResourceLink></WrittenResource>
    </Resources>
  </Session>
</METATRANSCRIPT>
`

const corpusDocument = `<?xml version="1.0" encoding="UTF-8"?>
<METATRANSCRIPT xmlns="http://www.mpi.nl/IMDI/Schema/IMDI" Type="CORPUS">
  <Corpus>
    <Name>edolo</Name>
    <CorpusLink Name="s1">edolo/s1.imdi</CorpusLink>
    <CorpusLink Name="s2">edolo/s2.imdi</CorpusLink>
  </Corpus>
</METATRANSCRIPT>
`

// opexEnvelope wraps a session document the way OPEX mode does. With
// propertiesLast the Properties block follows DescriptiveMetadata, which the
// OPEX schema forbids. The payload starts on line 14.
func opexEnvelope(session string, propertiesLast bool) string {
	body := strings.TrimPrefix(session, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	properties := "" +
		"  <opex:Properties>\n" +
		"    <opex:Title>Fishing</opex:Title>\n" +
		"  </opex:Properties>\n"
	descriptive := "" +
		"  <opex:DescriptiveMetadata>\n" +
		body +
		"  </opex:DescriptiveMetadata>\n"

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<opex:OPEXMetadata xmlns:opex="http://www.openpreservationexchange.org/opex/v1.2">` + "\n")
	b.WriteString("  <opex:Transfer>\n")
	b.WriteString("    <opex:Manifest>\n")
	b.WriteString("      <opex:Files>\n")
	b.WriteString(`        <opex:File type="content" size="2048">a.wav</opex:File>` + "\n")
	b.WriteString("      </opex:Files>\n")
	b.WriteString("    </opex:Manifest>\n")
	b.WriteString("  </opex:Transfer>\n")
	if propertiesLast {
		b.WriteString(descriptive)
		b.WriteString(properties)
	} else {
		b.WriteString(properties)
		b.WriteString(descriptive)
	}
	b.WriteString("</opex:OPEXMetadata>\n")
	return b.String()
}

// replaceOnce edits a fixture and fails when the target is missing.
func replaceOnce(t *testing.T, doc, old, new string) string {
	t.Helper()
	require.Contains(t, doc, old)
	return strings.Replace(doc, old, new, 1)
}

func readTestSchema(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// structural validates doc against a testdata schema.
func structural(t *testing.T, schemaFile, doc string) Result {
	t.Helper()
	r, err := NewStructural().Validate(context.Background(), []byte(doc), schemaFile, readTestSchema(t, schemaFile))
	require.NoError(t, err)
	return r
}

// dirSchemas serves schema files from testdata under the archive's names.
type dirSchemas struct {
	files map[string]string
	reads []string
}

func newDirSchemas() *dirSchemas {
	return &dirSchemas{files: map[string]string{
		"IMDI_3.0.xsd":      "imdi.xsd",
		"IMDI_3.0_elar.xsd": "imdi.xsd",
		"OPEX-Metadata.xsd": "opex.xsd",
	}}
}

func (d *dirSchemas) ReadSchemaFile(name string) ([]byte, error) {
	d.reads = append(d.reads, name)
	file, ok := d.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, os.ErrNotExist)
	}
	return os.ReadFile(filepath.Join("testdata", file))
}
