package schema

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/vvka-141/imdix/internal/sourcemap"
)

const payloadElement = "METATRANSCRIPT"

// ErrNoPayload is returned when an OPEX document carries no IMDI payload.
var ErrNoPayload = errors.New("no METATRANSCRIPT payload")

// RootName returns the local name of the document element.
func RootName(document string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(document))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("document has no root element")
			}
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// IsOPEX reports whether the document element is an OPEX envelope.
func IsOPEX(document string) bool {
	name, err := RootName(document)
	return err == nil && name == "OPEXMetadata"
}

// ExtractPayload cuts the METATRANSCRIPT element (start tag through end tag)
// out of an enclosing document. The returned map converts payload lines to
// document lines.
func ExtractPayload(document string) (string, *sourcemap.SourceMap, error) {
	start := findStartTag(document, payloadElement)
	if start < 0 {
		return "", nil, ErrNoPayload
	}
	closing := "</" + payloadElement + ">"
	end := strings.LastIndex(document, closing)
	if end < start {
		return "", nil, ErrNoPayload
	}
	payload := document[start : end+len(closing)]

	sm := sourcemap.New()
	sm.Add(1, sourcemap.LineCount(payload), sourcemap.LineOf(document, start), "IMDI payload")
	return payload, sm, nil
}

// findStartTag locates "<name" followed by whitespace, '>' or '/'.
func findStartTag(document, name string) int {
	needle := "<" + name
	from := 0
	for {
		i := strings.Index(document[from:], needle)
		if i < 0 {
			return -1
		}
		i += from
		next := i + len(needle)
		if next < len(document) && strings.ContainsRune(" \t\r\n>/", rune(document[next])) {
			return i
		}
		from = next
	}
}
