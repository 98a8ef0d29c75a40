package imdi

import (
	"path"
	"sort"

	"github.com/vvka-141/imdix/internal/archivename"
	"github.com/vvka-141/imdix/internal/fields"
	"github.com/vvka-141/imdix/internal/xmlnode"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// resources lists media files first, then written resources, each block
// sorted by export name. The schema requires that order.
func (d *doc) resources() *xmlnode.Node {
	var mediaFiles, writtenFiles []*imdix.File
	for _, f := range d.folder.Files {
		if !Eligible(f) {
			continue
		}
		d.checkFile(f)
		if classify(f).kind == media {
			mediaFiles = append(mediaFiles, f)
		} else {
			writtenFiles = append(writtenFiles, f)
		}
	}
	sortByExportName(mediaFiles)
	sortByExportName(writtenFiles)

	n := xmlnode.Elem("Resources")
	for _, f := range mediaFiles {
		n = n.Append(d.mediaFile(f))
	}
	for _, f := range writtenFiles {
		n = n.Append(d.writtenResource(f))
	}
	return n
}

func sortByExportName(files []*imdix.File) {
	sort.SliceStable(files, func(i, j int) bool {
		return archivename.ExportName(files[i]) < archivename.ExportName(files[j])
	})
}

func (d *doc) checkFile(f *imdix.File) {
	where := d.folder.DisplayName()
	if f.Missing {
		d.g.warn("%s: file %s is missing", where, f.Path)
	}
	wanted := f.ExportAs
	if wanted == "" {
		wanted = f.Name()
	}
	if archivename.Changed(wanted) {
		d.g.warn("%s: file %q will be exported as %q", where, wanted, archivename.ExportName(f))
	}
}

// link is the ResourceLink value. Bare IMDI documents live next to the unit
// directory, OPEX documents inside it.
func (d *doc) link(f *imdix.File) string {
	name := archivename.ExportName(f)
	if d.g.opts.Mode == imdix.ModeIMDI && d.unitDir != "" {
		return path.Join(d.unitDir, name)
	}
	return name
}

func (d *doc) mediaFile(f *imdix.File) *xmlnode.Node {
	g := d.g
	reg := fields.File()
	fm := classify(f)

	timePosition := xmlnode.Elem("TimePosition", xmlnode.Leaf("Start", imdix.Unspecified))
	if duration := f.Field("duration").Text(); duration != "" {
		timePosition = xmlnode.Elem("TimePosition",
			xmlnode.Leaf("Start", "00:00:00"),
			xmlnode.Leaf("End", duration),
		)
	}

	n := xmlnode.Elem("MediaFile",
		xmlnode.Leaf("ResourceLink", d.link(f)),
		vocabularyLeaf("Type", fm.typ, fields.MediaFileType),
		vocabularyLeaf("Format", fm.mimeType, fields.MediaFileFormat),
		xmlnode.Leaf("Size", size(f)),
		g.emitOne(reg.Must("quality"), f.Field("quality")),
		xmlnode.Leaf("RecordingConditions", f.Field("recordingConditions").Text()),
		timePosition,
		d.access(),
	)
	return n.Append(g.emit(reg.Must("description"), f.Field("description"))...).
		Append(g.keys(reg, f.Fields))
}

func (d *doc) writtenResource(f *imdix.File) *xmlnode.Node {
	g := d.g
	reg := fields.File()
	fm := classify(f)

	n := xmlnode.Elem("WrittenResource",
		xmlnode.Leaf("ResourceLink", d.link(f)),
		xmlnode.Leaf("MediaResourceLink", ""),
		g.emitOne(reg.Must("date"), f.Field("date")),
		vocabularyLeaf("Type", fm.typ, fields.WrittenResourceType),
		vocabularyLeaf("SubType", imdix.Unspecified, fields.WrittenResourceSub),
		vocabularyLeaf("Format", fm.mimeType, fields.WrittenResourceFmt),
		xmlnode.Leaf("Size", size(f)),
		xmlnode.Elem("Validation",
			vocabularyLeaf("Type", imdix.Unspecified, fields.ValidationType),
			vocabularyLeaf("Methodology", imdix.Unspecified, fields.ValidationMethodology),
		),
		vocabularyLeaf("Derivation", imdix.Unspecified, fields.Derivation),
		xmlnode.Leaf("CharacterEncoding", ""),
		xmlnode.Leaf("ContentEncoding", ""),
		xmlnode.Leaf("LanguageId", ""),
		vocabularyLeaf("Anonymized", imdix.Unspecified, fields.Boolean),
		d.access(),
	)
	return n.Append(g.emit(reg.Must("description"), f.Field("description"))...).
		Append(g.keys(reg, f.Fields))
}

// access carries the folder's access protocol onto every resource.
func (d *doc) access() *xmlnode.Node {
	g, f := d.g, d.folder
	reg := fields.Session()

	availability := f.Field("access")
	if availability.IsEmpty() {
		availability = g.project.Field("accessProtocol")
	}

	n := xmlnode.Elem("Access",
		g.emitOne(reg.Must("access"), availability),
		xmlnode.Leaf("Date", imdix.Unspecified),
		xmlnode.Leaf("Owner", ""),
		xmlnode.Leaf("Publisher", ""),
		xmlnode.Elem("Contact"),
	)
	return n.Append(g.emit(reg.Must("accessDescription"), f.Field("accessDescription"))...)
}

func vocabularyLeaf(name, value string, v *fields.Vocab) *xmlnode.Node {
	return xmlnode.Leaf(name, value).
		WithAttr("Link", v.URL).
		WithAttr("Type", string(v.Type))
}

// manifestFiles lists the unit's exported files for the OPEX manifest.
func (d *doc) manifestFiles() []manifestFile {
	var out []manifestFile
	for _, f := range d.folder.Files {
		if !Eligible(f) {
			continue
		}
		out = append(out, manifestFile{name: archivename.ExportName(f), size: f.Size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
