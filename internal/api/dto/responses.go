package dto

import (
	"time"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StateResponse wraps a receipt state together with where it came from:
// "receipt" when a share code was decoded, "defaults" when the code was
// absent or malformed and the stored defaults were used instead.
//
// State is the codec's wire type rather than a copy; the share code and
// this endpoint must agree on the JSON shape, so there is only one.
type StateResponse struct {
	State  receipt.State `json:"state"`
	Source string        `json:"source"`
}

// State sources reported by StateResponse.
const (
	StateSourceReceipt  = "receipt"
	StateSourceDefaults = "defaults"
)

// EncodeStateResponse carries the share code for an encoded state.
type EncodeStateResponse struct {
	Code string `json:"code"`
}

// CategoryListResponse is returned when listing registered categories.
type CategoryListResponse struct {
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

// CategorySuggestResponse is returned by the category typeahead endpoint.
type CategorySuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
}

// AddCategoryResponse is returned when registering a category. Added is
// false when the exact name was already present.
type AddCategoryResponse struct {
	Name  string `json:"name"`
	Added bool   `json:"added"`
}

// TaxRateResponse carries the stored tax-rate text. The value is kept as
// entered, so it may be empty or non-numeric.
type TaxRateResponse struct {
	TaxRate string `json:"taxRate"`
}

// ImportRunResponse represents an import run in API responses.
type ImportRunResponse struct {
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

// ImportRunListResponse is returned when listing import runs.
type ImportRunListResponse struct {
	Runs  []ImportRunResponse `json:"runs"`
	Count int                 `json:"count"`
}

// MessageResponse is a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
