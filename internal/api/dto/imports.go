package dto

// StartImportResponse is returned when an import is started.
type StartImportResponse struct {
	JobID      string `json:"job_id"`
	SourceName string `json:"source_name"`
	Status     string `json:"status"`
}

// ImportJobResponse represents an import job's status.
type ImportJobResponse struct {
	JobID       string                 `json:"job_id"`
	SourceName  string                 `json:"source_name"`
	SourceType  string                 `json:"source_type"`
	SourceSize  int64                  `json:"source_size"`
	Status      string                 `json:"status"`
	StartedAt   string                 `json:"started_at"`
	CompletedAt *string                `json:"completed_at,omitempty"`
	Progress    ImportProgressResponse `json:"progress"`
	Items       []ImportItemResponse   `json:"items,omitempty"`
	Notice      string                 `json:"notice,omitempty"`
	Error       *string                `json:"error,omitempty"`
}

// ImportProgressResponse represents real-time progress.
type ImportProgressResponse struct {
	CurrentPhase string `json:"current_phase"`
	LastUpdate   string `json:"last_update"`
}

// ImportItemResponse is one extracted line item. The JSON keys match the
// receipt state's item shape so the client can append these directly;
// extraction always yields an empty category and a non-taxable item.
type ImportItemResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Taxable  bool    `json:"taxable"`
}

// ActiveImportsResponse lists active import jobs.
type ActiveImportsResponse struct {
	Jobs  []ImportJobResponse `json:"jobs"`
	Count int                 `json:"count"`
}

// AllImportsResponse lists all import jobs (including completed).
type AllImportsResponse struct {
	Jobs  []ImportJobResponse `json:"jobs"`
	Count int                 `json:"count"`
}
