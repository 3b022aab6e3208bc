package history

import "time"

const SchemaVersion = 1

// Snapshot summarizes one scan of a project.
type Snapshot struct {
	RunID            string    `json:"run_id"`
	ProjectKey       string    `json:"project_key"`
	SchemaVersion    int       `json:"schema_version"`
	Timestamp        time.Time `json:"timestamp"`
	DurationMS       int64     `json:"duration_ms"`
	FileCount        int       `json:"file_count"`
	ImportCount      int       `json:"import_count"`
	SyntaxErrorCount int       `json:"syntax_error_count"`
	UnusedFunctions  int       `json:"unused_functions"`
	UnusedProperties int       `json:"unused_properties"`
	UnusedVariables  int       `json:"unused_variables"`
	UnusedAttributes int       `json:"unused_attributes"`
	UnusedTotal      int       `json:"unused_total"`
}

// UnusedSymbol is one reported symbol of a stored run.
type UnusedSymbol struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
}

type TrendPoint struct {
	RunID       string    `json:"run_id"`
	Timestamp   time.Time `json:"timestamp"`
	FileCount   int       `json:"file_count"`
	UnusedTotal int       `json:"unused_total"`
	DeltaFiles  int       `json:"delta_files"`
	DeltaUnused int       `json:"delta_unused"`
	// Added and Removed compare the symbol names of consecutive runs.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	ProjectKey    string       `json:"project_key"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
