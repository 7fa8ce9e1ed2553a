package main

import (
	"testing"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

func TestDetailLine(t *testing.T) {
	row := plan.ProductPlan{
		SKU:             "SERUM-30",
		PackagingDetail: []string{"BOTTLE-30: covered by arrival 2026-01-27", "PUMP-A: short 5, no arrival date"},
	}
	got := detailLine(row)
	want := "  SERUM-30: BOTTLE-30: covered by arrival 2026-01-27; PUMP-A: short 5, no arrival date"
	if got != want {
		t.Errorf("detailLine = %q, want %q", got, want)
	}
}

func TestDetailLineEmpty(t *testing.T) {
	if got := detailLine(plan.ProductPlan{SKU: "CREAM-50"}); got != "" {
		t.Errorf("detailLine = %q, want empty", got)
	}
}
