// Package codec serializes receipt state to and from a compact share code.
//
// The code is JSON wrapped in unpadded base64url, so it can be embedded as a
// single URL query-parameter value without further escaping. Decoding is
// total: malformed input reports absence instead of failing.
package codec

import (
	"encoding/base64"
	"encoding/json"

	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

// QueryParam is the URL query parameter that carries an encoded state.
const QueryParam = "receipt"

// Encode serializes a state into a URL-query-safe share code.
// Encode(s) followed by Decode recovers s field-by-field, with a nil item
// slice coming back as an empty one.
func Encode(state receipt.State) string {
	// JSON clients omit "items" freely, which binds as a nil slice. Marshal
	// would render that as null, which Decode rejects; an empty list is what
	// the state means.
	if state.Items == nil {
		state.Items = []receipt.LineItem{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		// State contains only strings, floats, and bools; Marshal cannot
		// fail on it. Keep the codec total anyway.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a share code back into a state. The second return value is
// false for any malformed input: bad base64, invalid JSON, or JSON that does
// not match the state structure. Field values are not validated semantically;
// that is the totals engine's concern.
func Decode(code string) (receipt.State, bool) {
	var state receipt.State

	data, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return receipt.State{}, false
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return receipt.State{}, false
	}

	// Encode always writes an items array, even an empty one. A nil slice
	// here means the JSON was something else entirely (null, {}, a number)
	// that happened to unmarshal without error.
	if state.Items == nil {
		return receipt.State{}, false
	}

	return state, true
}

// SettingsReader is the read side of the settings store the defaults are
// seeded from.
type SettingsReader interface {
	GetSetting(key string) (string, bool, error)
}

// TaxRateKey is the settings key holding the raw tax-rate string.
const TaxRateKey = "taxRate"

// DefaultState builds the state used when no share code is present: an empty
// item list, the stored tax rate (empty string if absent or unreadable), and
// a percentage discount with an empty value.
func DefaultState(settings SettingsReader) receipt.State {
	state := receipt.State{
		Items:         []receipt.LineItem{},
		DiscountType:  receipt.DiscountPercentage,
		DiscountValue: "",
	}

	if settings != nil {
		if taxRate, ok, err := settings.GetSetting(TaxRateKey); err == nil && ok {
			state.TaxRate = taxRate
		}
	}

	return state
}
