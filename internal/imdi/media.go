package imdi

import (
	"github.com/dustin/go-humanize"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// sidecarExtensions are the project's own metadata files. They describe the
// other files and are never exported as resources.
var sidecarExtensions = map[string]bool{
	".meta":    true,
	".session": true,
	".person":  true,
	".project": true,
}

// Eligible reports whether a file belongs in the bundle.
func Eligible(f *imdix.File) bool {
	return f != nil && !sidecarExtensions[f.Ext()]
}

type resourceKind int

const (
	written resourceKind = iota
	media
)

type format struct {
	kind     resourceKind
	typ      string
	mimeType string
}

var formats = map[string]format{
	".wav":  {media, "audio", "audio/x-wav"},
	".mp3":  {media, "audio", "audio/mpeg"},
	".m4a":  {media, "audio", "audio/mp4"},
	".flac": {media, "audio", "audio/flac"},
	".aif":  {media, "audio", "audio/x-aiff"},
	".aiff": {media, "audio", "audio/x-aiff"},
	".ogg":  {media, "audio", "audio/ogg"},
	".wma":  {media, "audio", "audio/x-ms-wma"},
	".mp4":  {media, "video", "video/mp4"},
	".m4v":  {media, "video", "video/mp4"},
	".mov":  {media, "video", "video/quicktime"},
	".avi":  {media, "video", "video/x-msvideo"},
	".mpg":  {media, "video", "video/mpeg"},
	".mpeg": {media, "video", "video/mpeg"},
	".mts":  {media, "video", "video/mp2t"},
	".webm": {media, "video", "video/webm"},
	".wmv":  {media, "video", "video/x-ms-wmv"},
	".jpg":  {media, "image", "image/jpeg"},
	".jpeg": {media, "image", "image/jpeg"},
	".png":  {media, "image", "image/png"},
	".tif":  {media, "image", "image/tiff"},
	".tiff": {media, "image", "image/tiff"},
	".gif":  {media, "image", "image/gif"},
	".bmp":  {media, "image", "image/bmp"},

	".eaf":      {written, "Annotation", "text/x-eaf+xml"},
	".trs":      {written, "Annotation", "text/x-trs"},
	".flextext": {written, "Annotation", "text/xml"},
	".txt":      {written, "Unspecified", "text/plain"},
	".pdf":      {written, "Unspecified", "application/pdf"},
	".doc":      {written, "Unspecified", "application/msword"},
	".docx":     {written, "Unspecified", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".odt":      {written, "Unspecified", "application/vnd.oasis.opendocument.text"},
	".rtf":      {written, "Unspecified", "application/rtf"},
	".xml":      {written, "Unspecified", "text/xml"},
	".csv":      {written, "Unspecified", "text/csv"},
	".html":     {written, "Unspecified", "text/html"},
}

func classify(f *imdix.File) format {
	if fm, ok := formats[f.Ext()]; ok {
		return fm
	}
	return format{kind: written, typ: imdix.Unspecified, mimeType: imdix.Unspecified}
}

// size renders a byte count for the Size element.
func size(f *imdix.File) string {
	if f.Missing || f.Size <= 0 {
		return imdix.Unspecified
	}
	return humanize.Bytes(uint64(f.Size))
}
