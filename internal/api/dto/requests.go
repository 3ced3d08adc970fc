package dto

// AddCategoryRequest is the request body for registering a category.
type AddCategoryRequest struct {
	Name string `json:"name"`
}

// TaxRateRequest is the request body for updating the stored tax rate.
// The value is persisted as-is; lenient parsing happens at computation
// time, not here.
type TaxRateRequest struct {
	TaxRate string `json:"taxRate"`
}

// ImportRunListParams represents query parameters for listing import runs.
type ImportRunListParams struct {
	Limit int `json:"limit"`
}

// DefaultImportRunListParams returns default values for import run list params.
func DefaultImportRunListParams() ImportRunListParams {
	return ImportRunListParams{
		Limit: 20,
	}
}
