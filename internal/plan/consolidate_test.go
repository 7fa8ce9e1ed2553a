package plan

import (
	"reflect"
	"testing"
)

func TestConsolidateDemandWindowAndAggregation(t *testing.T) {
	orders := ordersTable(
		[]string{"SKU1", "100", "2026-01-20"},
		[]string{"SKU1", "50", "2026-01-24"},
		[]string{"SKU2", "30", "2026-01-19"}, // week start, inclusive
		[]string{"SKU3", "25", "2026-01-25"}, // week end, inclusive
		[]string{"SKU1", "999", "2026-01-26"},         // outside window
		[]string{"SKU4", "10", "2026-01-10"},          // outside window
		[]string{"SKU5", "10", ""},                    // no date
		[]string{"SKU6", "10", "when it gets here"},   // unparseable date
		[]string{"SKU2", "not a number", "2026-01-21"}, // quantity coerces to zero
	)

	got := ConsolidateDemand(orders, DefaultColumns(), testWeek())
	want := []DemandRow{
		{SKU: "SKU1", Gross: 150},
		{SKU: "SKU2", Gross: 30},
		{SKU: "SKU3", Gross: 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ConsolidateDemand = %+v, want %+v", got, want)
	}
}

func TestConsolidateDemandNegativeQuantity(t *testing.T) {
	orders := ordersTable(
		[]string{"SKU1", "100", "2026-01-20"},
		[]string{"SKU1", "-40", "2026-01-21"}, // counts as zero, never subtracts
		[]string{"SKU2", "-5", "2026-01-22"},
	)

	got := ConsolidateDemand(orders, DefaultColumns(), testWeek())
	want := []DemandRow{
		{SKU: "SKU1", Gross: 100},
		{SKU: "SKU2", Gross: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ConsolidateDemand = %+v, want %+v", got, want)
	}
}

func TestConsolidateDemandMissingColumns(t *testing.T) {
	orders := tbl("orders", []string{"SKU", "Quantity"}, []string{"SKU1", "100"})
	if got := ConsolidateDemand(orders, DefaultColumns(), testWeek()); len(got) != 0 {
		t.Fatalf("expected empty result for malformed table, got %+v", got)
	}
	if got := ConsolidateDemand(Table{}, DefaultColumns(), testWeek()); len(got) != 0 {
		t.Fatalf("expected empty result for empty table, got %+v", got)
	}
}
