package cli

import (
	"flag"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// ReceiptFlags are the flags for the one-shot receipt tool
type ReceiptFlags struct {
	Decode        string
	File          string
	Encode        bool
	TaxRate       string
	DiscountType  string
	DiscountValue string
}

// ParseReceiptFlags parses the receipt tool flags from the command line
func ParseReceiptFlags() ReceiptFlags {
	var flags ReceiptFlags
	flag.StringVar(&flags.Decode, "decode", "", "Share code to read the state from")
	flag.StringVar(&flags.File, "file", "", "Path to a receipt state JSON file")
	flag.BoolVar(&flags.Encode, "encode", false, "Print the share code for the state instead of totals")
	flag.StringVar(&flags.TaxRate, "tax-rate", "", "Override the tax rate (percent)")
	flag.StringVar(&flags.DiscountType, "discount-type", "", "Override the discount type (percentage or amount)")
	flag.StringVar(&flags.DiscountValue, "discount-value", "", "Override the discount value")
	flag.Parse()
	return flags
}

// ApplyOverrides returns the state with any flag overrides applied
func (f ReceiptFlags) ApplyOverrides(state receipt.State) receipt.State {
	if f.TaxRate != "" {
		state.TaxRate = f.TaxRate
	}
	if f.DiscountType != "" {
		state.DiscountType = receipt.DiscountType(f.DiscountType)
	}
	if f.DiscountValue != "" {
		state.DiscountValue = f.DiscountValue
	}
	return state
}
