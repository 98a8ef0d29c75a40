package imdix

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Export/validation completed successfully
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid configuration or imdix.yaml
	ExitProjectError      = 11 // Project folder missing or unreadable
	ExitValidationFailed  = 12 // Generated or supplied document failed schema validation
	ExitOutputError       = 13 // Output root could not be prepared
	ExitCancelled         = 14 // Export cancelled by the user
	ExitSchemaUnavailable = 15 // Schema file could not be loaded
	ExitOverwriteDenied   = 16 // User declined clearing the output folder
)

// Document file extensions by output mode.
const (
	ExtensionIMDI = ".imdi"
	ExtensionOPEX = ".opex"
)

// Folder names used for project-level pseudo-sessions.
const (
	OtherDocumentsFolderName       = "OtherDocuments"
	DescriptionDocumentsFolderName = "DescriptionDocuments"
	ConsentFolderName              = "ConsentDocuments"
)

// FixedFolderCount is the number of non-session folders counted in JobInfo:
// other documents, description documents and the consent bundle.
const FixedFolderCount = 3

// Schema file names read through PrivilegedIO.ReadSchemaFile.
const (
	SchemaIMDI     = "IMDI_3.0.xsd"
	SchemaIMDIELAR = "IMDI_3.0_elar.xsd"
	SchemaOPEX     = "OPEX-Metadata.xsd"
)

const (
	// DefaultCopyConcurrency bounds how many external copy processes run at once.
	DefaultCopyConcurrency = 2

	// DefaultCancelGrace is how long CancelAll waits for an interrupted copy
	// process before deleting its partial destination.
	DefaultCancelGrace = 500 * time.Millisecond

	// DefaultRetryInitialDelay is the initial delay before retrying a transient copy failure.
	DefaultRetryInitialDelay = 250 * time.Millisecond

	// DefaultRetryMaxDelay caps the delay between copy retries.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the number of retries after the first copy attempt.
	DefaultRetryMaxAttempts = 2

	// ContextLines is the number of source lines shown on each side of a
	// validation error location.
	ContextLines = 3

	// Unspecified is the IMDI placeholder for required values with no usable data.
	Unspecified = "Unspecified"
)
