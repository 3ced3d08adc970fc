package storage

// Import run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// ImportRun is the audit record for one receipt import.
type ImportRun struct {
	ID           int64  `json:"id"`
	JobID        string `json:"job_id"`
	SourceName   string `json:"source_name"`
	SourceType   string `json:"source_type"`
	SourceSize   int64  `json:"source_size"`
	StartedAt    string `json:"started_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
	ItemsFound   int    `json:"items_found"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
