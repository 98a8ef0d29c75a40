// Package bundle decides what an export writes and in what order.
//
// An Orchestrator walks a project as a pull-based sequence. Each call to
// Next yields one ExportUnit, in a fixed order:
//
//  1. OtherDocuments, when it has exportable files
//  2. DescriptionDocuments, when it has exportable files
//  3. ConsentDocuments, when a contributor of an exported session has a
//     file tagged "consent"
//  4. every session accepted by the filter, in project order
//
// and finally a CorpusUnit linking every unit that was yielded. Each
// document is validated as soon as it is generated; a rejected document
// ends the sequence with a *schema.ValidationError.
//
// The orchestrator never writes output. Units carry the directories to
// create, the document to write and the files to copy.
package bundle
