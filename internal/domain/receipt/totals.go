// Package receipt provides the receipt-splitting computation core.
//
// ComputeTotals aggregates line items into per-category subtotals, discounts,
// tax, and totals. A percentage discount applies independently per category;
// a flat amount discount is distributed across categories proportionally to
// their share of total spend:
//
//	categoryDiscount = discountValue * (categorySubtotal / totalSubtotal)
//
// Tax applies only to taxable items, on their discount-adjusted price.
package receipt

import (
	"math"
	"strconv"
	"strings"
)

// ComputeTotals aggregates items into per-category and grand totals.
//
// taxRatePercent and discountValue are user-entered strings; empty or
// non-numeric input is treated as zero. The function is pure: same inputs
// always produce the same output, and an empty item list yields an empty
// Categories slice with zero grand totals rather than an error.
func ComputeTotals(items []LineItem, taxRatePercent string, discountType DiscountType, discountValue string) *Totals {
	type group struct {
		subtotal float64
		items    []LineItem
	}

	// Group by category, preserving first-seen order for display.
	order := make([]string, 0, len(items))
	groups := make(map[string]*group)
	for _, item := range items {
		g, ok := groups[item.Category]
		if !ok {
			g = &group{}
			groups[item.Category] = g
			order = append(order, item.Category)
		}
		g.subtotal += item.Price
		g.items = append(g.items, item)
	}

	var totalSubtotal float64
	for _, g := range groups {
		totalSubtotal += g.subtotal
	}

	rate := parseAmount(taxRatePercent)
	value := parseAmount(discountValue)

	result := &Totals{
		Categories: make([]CategoryTotal, 0, len(order)),
	}

	for _, category := range order {
		g := groups[category]

		var discount float64
		switch discountType {
		case DiscountAmount:
			// Proportional share of the flat discount. With a zero total
			// subtotal the share is undefined, so no discount is applied.
			if totalSubtotal != 0 {
				discount = value * (g.subtotal / totalSubtotal)
			}
		default:
			// Percentage is the default discount type.
			discount = g.subtotal * (value / 100)
		}

		var tax float64
		for _, item := range g.items {
			if !item.Taxable {
				continue
			}
			var itemDiscount float64
			if g.subtotal != 0 {
				itemDiscount = item.Price / g.subtotal * discount
			}
			tax += (item.Price - itemDiscount) * (rate / 100)
		}

		subtotal := roundToCents(g.subtotal)
		discount = roundToCents(discount)
		tax = roundToCents(tax)
		total := roundToCents(subtotal - discount + tax)

		result.Categories = append(result.Categories, CategoryTotal{
			Category: category,
			Subtotal: subtotal,
			Discount: discount,
			Tax:      tax,
			Total:    total,
		})

		result.Subtotal += subtotal
		result.Discount += discount
		result.Tax += tax
	}

	// Grand totals are sums of the rounded rows, so the grand line always
	// matches what the per-category rows add up to.
	result.Subtotal = roundToCents(result.Subtotal)
	result.Discount = roundToCents(result.Discount)
	result.Tax = roundToCents(result.Tax)
	result.Total = roundToCents(result.Subtotal - result.Discount + result.Tax)

	return result
}

// parseAmount parses a user-entered numeric string. Empty, non-numeric,
// NaN, and infinite values all parse to 0 so a half-typed field never
// poisons the computation.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundToCents rounds a float to 2 decimal places.
func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
