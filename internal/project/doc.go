// Package project reads a project folder into the model the export engine
// consumes.
//
// Layout:
//
//	<project>/
//	  <project>.project              project fields (YAML)
//	  Sessions/<id>/<id>.session     session fields and contributions
//	  People/<id>/<id>.person        person fields and spoken languages
//	  OtherDocuments/
//	  DescriptionDocuments/
//
// Every other file in a session, person or document folder belongs to that
// folder. A "<file>.meta" sidecar carries the file's fields, tags,
// contributions and export name; a sidecar without its file marks the file
// as missing.
//
// Field values are YAML scalars, sequences (joined with ';') or mappings
// from language tag to text for multilingual fields.
package project
