package plan

import (
	"sort"

	"github.com/joelkehle/weekly-planner/internal/coerce"
)

// ConsolidateDemand filters orders to the planning week and sums requested
// quantity per product. Orders with a missing or unparseable required date
// are discarded; unparseable or negative quantities count as zero, so one
// malformed order line never erodes demand from the others. A table missing
// its required columns yields an empty result, never a failure.
func ConsolidateDemand(orders Table, cols ColumnMap, week Week) []DemandRow {
	if orders.Empty() || !orders.HasColumns(cols.OrderSKU, cols.OrderQty, cols.OrderDate) {
		return nil
	}

	gross := map[string]int{}
	for _, row := range orders.Rows {
		sku := cell(row, cols.OrderSKU)
		if sku == "" {
			continue
		}
		required, ok := coerce.Date(cell(row, cols.OrderDate))
		if !ok || !week.Contains(required) {
			continue
		}
		qty := coerce.Int(cell(row, cols.OrderQty), 0)
		if qty < 0 {
			qty = 0
		}
		gross[sku] += qty
	}

	out := make([]DemandRow, 0, len(gross))
	for sku, qty := range gross {
		out = append(out, DemandRow{SKU: sku, Gross: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}
