package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yts/receipt-splitter-backend/internal/cli"
	"github.com/yts/receipt-splitter-backend/internal/codec"
	"github.com/yts/receipt-splitter-backend/internal/domain/receipt"
)

func main() {
	flags := cli.ParseReceiptFlags()

	state, err := loadState(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	state = flags.ApplyOverrides(state)

	if flags.Encode {
		fmt.Println(codec.Encode(state))
		return
	}

	totals := receipt.ComputeTotals(state.Items, state.TaxRate, state.DiscountType, state.DiscountValue)
	cli.PrintTotals(totals)
}

// loadState reads the receipt state from a share code or a JSON file.
func loadState(flags cli.ReceiptFlags) (receipt.State, error) {
	switch {
	case flags.Decode != "":
		state, ok := codec.Decode(flags.Decode)
		if !ok {
			return receipt.State{}, fmt.Errorf("share code is not valid")
		}
		return state, nil
	case flags.File != "":
		data, err := os.ReadFile(flags.File)
		if err != nil {
			return receipt.State{}, err
		}
		var state receipt.State
		if err := json.Unmarshal(data, &state); err != nil {
			return receipt.State{}, fmt.Errorf("parse %s: %w", flags.File, err)
		}
		return state, nil
	default:
		return receipt.State{}, fmt.Errorf("either -decode or -file is required")
	}
}
