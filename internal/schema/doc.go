// Package schema validates generated documents against the archive's XML
// Schemas.
//
// OPEX documents are validated twice: the embedded METATRANSCRIPT payload
// against the IMDI schema, and the whole envelope against the OPEX schema.
// Both must pass. Payload errors are reported with lines of the enclosing
// document.
//
// Two backends are provided. Structural is an in-process validator for the
// subset of XML Schema that the IMDI and OPEX schemas use. XMLLint delegates
// to the xmllint command when it is installed.
package schema
