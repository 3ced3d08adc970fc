package receipt

// LineItem is one purchased entry on a receipt.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Taxable  bool    `json:"taxable"`
}

// DiscountType selects how the discount value is applied.
type DiscountType string

const (
	// DiscountPercentage applies the value as a percentage per category.
	DiscountPercentage DiscountType = "percentage"
	// DiscountAmount distributes a flat amount across categories
	// proportionally to their share of the total subtotal.
	DiscountAmount DiscountType = "amount"
)

// State is the full editable state of a receipt: the items plus the tax and
// discount configuration. TaxRate and DiscountValue keep the raw text the
// user entered (including empty string) rather than a coerced number.
type State struct {
	Items         []LineItem   `json:"items"`
	TaxRate       string       `json:"taxRate"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue string       `json:"discountValue"`
}

// CategoryTotal holds the computed amounts for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals is the result of a totals computation: one entry per category in
// first-seen order, plus grand totals summed over the categories.
type Totals struct {
	Categories []CategoryTotal `json:"categories"`
	Subtotal   float64         `json:"subtotal"`
	Discount   float64         `json:"discount"`
	Tax        float64         `json:"tax"`
	Total      float64         `json:"total"`
}
