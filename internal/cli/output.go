package cli

import (
	"fmt"
	"strings"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// PrintTotals prints a per-category totals table followed by the grand totals
func PrintTotals(totals *receipt.Totals) {
	fmt.Printf("%-20s %10s %10s %10s %10s\n", "Category", "Subtotal", "Discount", "Tax", "Total")
	fmt.Println(strings.Repeat("-", 64))

	for _, ct := range totals.Categories {
		name := ct.Category
		if name == "" {
			name = "(uncategorized)"
		}
		fmt.Printf("%-20s %10.2f %10.2f %10.2f %10.2f\n", name, ct.Subtotal, ct.Discount, ct.Tax, ct.Total)
	}

	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("%-20s %10.2f %10.2f %10.2f %10.2f\n", "Total", totals.Subtotal, totals.Discount, totals.Tax, totals.Total)
}
