package imdi

import (
	"strconv"

	"github.com/vvka-141/imdix/internal/xmlnode"
)

const opexNamespace = "http://www.openpreservationexchange.org/opex/v1.2"

type manifestFile struct {
	name string
	size int64
}

// opex wraps a METATRANSCRIPT in an OPEX envelope. The manifest lists the
// files and subfolders that sit next to the document.
func (g *Generator) opex(payload *xmlnode.Node, title, description string, files []manifestFile, folders []string) *xmlnode.Node {
	manifest := xmlnode.Elem("opex:Manifest")
	if len(files) > 0 {
		list := xmlnode.Elem("opex:Files")
		for _, f := range files {
			entry := xmlnode.Leaf("opex:File", f.name, xmlnode.Attr{Name: "type", Value: "content"})
			if f.size > 0 {
				entry = entry.WithAttr("size", strconv.FormatInt(f.size, 10))
			}
			list = list.Append(entry)
		}
		manifest = manifest.Append(list)
	}
	if len(folders) > 0 {
		list := xmlnode.Elem("opex:Folders")
		for _, name := range folders {
			list = list.Append(xmlnode.Leaf("opex:Folder", name))
		}
		manifest = manifest.Append(list)
	}

	properties := xmlnode.Elem("opex:Properties", xmlnode.Leaf("opex:Title", title))
	if description != "" {
		properties = properties.Append(xmlnode.Leaf("opex:Description", description))
	}

	return xmlnode.Elem("opex:OPEXMetadata",
		xmlnode.Elem("opex:Transfer", manifest),
		properties,
		xmlnode.Elem("opex:DescriptiveMetadata", payload),
	).WithAttr("xmlns:opex", opexNamespace)
}
