package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// priceRe matches a decimal price with exactly two decimal places and an
// optional leading dollar sign.
var priceRe = regexp.MustCompile(`\$?\d+\.\d{2}`)

// ParseItems scans recognized receipt text for candidate line items. Each
// line is matched against the price pattern; the text preceding the first
// match, trimmed, becomes the item name. Lines missing either a non-empty
// name or a parseable price are discarded. Imported items start with an
// empty category and taxable unset, awaiting user completion.
func ParseItems(text string) []receipt.LineItem {
	items := []receipt.LineItem{}
	for _, line := range strings.Split(text, "\n") {
		loc := priceRe.FindStringIndex(line)
		if loc == nil {
			continue
		}

		name := strings.TrimSpace(line[:loc[0]])
		if name == "" {
			continue
		}

		raw := strings.TrimPrefix(line[loc[0]:loc[1]], "$")
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		items = append(items, receipt.LineItem{Name: name, Price: price})
	}
	return items
}
