package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/chandan-mishra846/ecommerce-backend/internal/reconcile"

	"github.com/shopspring/decimal"
)

// Prints every verified payment that never became an order, read from the
// local reconciliation files. Usage: reconcile_report [dir]
func main() {
	dir := "data/reconciliation"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "reconciliation-*.jsonl.gz"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid directory %s: %v\n", dir, err)
		os.Exit(1)
	}
	sort.Strings(files)

	ctx := context.Background()
	totals := map[string]int64{}
	count := 0
	for _, file := range files {
		entries, err := reconcile.ReadFile(ctx, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", file, err)
			os.Exit(1)
		}
		for _, e := range entries {
			count++
			totals[e.Currency] += e.AmountMinor
			fmt.Printf("%s  %-9s %-24s %10s %s  user=%s  %s\n",
				e.RecordedAt.Format("2006-01-02 15:04:05"), e.Gateway, e.PaymentID,
				decimal.New(e.AmountMinor, -2).StringFixed(2), e.Currency, e.UserID, e.Reason)
		}
	}

	fmt.Printf("\n%d unreconciled payments in %d files\n", count, len(files))
	for currency, minor := range totals {
		fmt.Printf("  %s %s\n", decimal.New(minor, -2).StringFixed(2), currency)
	}
}
