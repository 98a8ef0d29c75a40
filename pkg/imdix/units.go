package imdix

// FileCopyRequest is one planned copy into the bundle. Destination is already
// sanitized for archive-safe characters.
type FileCopyRequest struct {
	Source      string
	Destination string

	// Size is the source size recorded by the project model.
	Size int64
}

// ExportUnit is the output of one folder. It is produced by the orchestrator,
// consumed exactly once by the coordinator and never modified in between.
type ExportUnit struct {
	// ID correlates progress events; stable across runs for the same folder.
	ID          string
	DisplayName string

	Document     string
	DocumentPath string

	// DirectoriesToCreate must exist before Document or any copy is written.
	DirectoriesToCreate []string

	Copies []FileCopyRequest
}

// CorpusUnit is the terminal collection-level document.
type CorpusUnit struct {
	DisplayName  string
	Document     string
	DocumentPath string
}

// JobInfo sizes the progress bar for a run.
type JobInfo struct {
	TotalFolders         int
	RootDirectory        string
	SecondLevelDirectory string
}
