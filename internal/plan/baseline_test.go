package plan

import (
	"math"
	"testing"
)

func TestConsumptionBaselineMonthly(t *testing.T) {
	sales := tbl("sales_history", []string{"SKU", "Month", "Units"},
		[]string{"SKU1", "2025-11", "100"},
		[]string{"SKU1", "2025-11", "50"}, // same month, summed first
		[]string{"SKU1", "2025-12", "30"},
		[]string{"SKU2", "2025-12", "10"},
	)
	got := ConsumptionBaseline(sales, DefaultColumns())
	if math.Abs(got["SKU1"]-90) > 1e-9 { // (150 + 30) / 2 months
		t.Errorf("SKU1 = %v, want 90", got["SKU1"])
	}
	if got["SKU2"] != 10 {
		t.Errorf("SKU2 = %v, want 10", got["SKU2"])
	}
}

func TestConsumptionBaselineFlat(t *testing.T) {
	sales := tbl("sales_history", []string{"SKU", "Units"},
		[]string{"SKU1", "100"},
		[]string{"SKU1", "50"},
		[]string{"SKU1", "junk"}, // counts as zero
	)
	got := ConsumptionBaseline(sales, DefaultColumns())
	if got["SKU1"] != 50 {
		t.Errorf("SKU1 = %v, want 50", got["SKU1"])
	}
}

func TestConsumptionBaselineUnitsColumnCandidates(t *testing.T) {
	sales := tbl("sales_history", []string{"SKU", "Sales"},
		[]string{"SKU1", "20"},
	)
	got := ConsumptionBaseline(sales, DefaultColumns())
	if got["SKU1"] != 20 {
		t.Errorf("SKU1 = %v, want 20 via Sales column", got["SKU1"])
	}
}

func TestConsumptionBaselineDegenerate(t *testing.T) {
	if got := ConsumptionBaseline(Table{}, DefaultColumns()); len(got) != 0 {
		t.Errorf("empty table: %v", got)
	}
	noUnits := tbl("sales_history", []string{"SKU", "Notes"}, []string{"SKU1", "x"})
	if got := ConsumptionBaseline(noUnits, DefaultColumns()); len(got) != 0 {
		t.Errorf("no units column: %v", got)
	}
}
