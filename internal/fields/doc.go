// Package fields is the typed field-definition registry behind metadata export.
//
// Every folder and file property that has a dedicated IMDI slot is described
// by a Definition: the element it fills, whether the schema requires it, the
// literal default used when it is empty, and the controlled vocabulary it is
// drawn from. Properties without a Definition are "custom" and are exported
// in a Keys group unless they are blacklisted or marked as migrated.
//
// The emission policy is derived, not stored:
//
//	Vocabulary           field has a controlled vocabulary (Link/Type attributes)
//	RequiredWithDefault  element must appear; empty values become Default
//	Required             element must appear; empty values stay empty
//	Optional             element is omitted when empty
package fields
