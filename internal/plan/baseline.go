package plan

import "github.com/joelkehle/weekly-planner/internal/coerce"

// ConsumptionBaseline computes an average historical consumption per product
// from the sales history table. When a period column is present, units are
// first summed to month level per product and the month sums averaged;
// otherwise rows average directly. Missing or non-numeric units count as
// zero. The result is context for the decision collaborator, never a
// feasibility input.
func ConsumptionBaseline(sales Table, cols ColumnMap) map[string]float64 {
	if sales.Empty() || !sales.HasColumns(cols.SalesSKU) {
		return map[string]float64{}
	}
	unitsCol := ""
	for _, candidate := range cols.SalesUnits {
		if sales.HasColumns(candidate) {
			unitsCol = candidate
			break
		}
	}
	if unitsCol == "" {
		return map[string]float64{}
	}

	if sales.HasColumns(cols.SalesPeriod) {
		return monthlyAverage(sales, cols, unitsCol)
	}
	return flatAverage(sales, cols, unitsCol)
}

func flatAverage(sales Table, cols ColumnMap, unitsCol string) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, row := range sales.Rows {
		sku := cell(row, cols.SalesSKU)
		if sku == "" {
			continue
		}
		sums[sku] += coerce.Float(cell(row, unitsCol), 0)
		counts[sku]++
	}
	out := make(map[string]float64, len(sums))
	for sku, sum := range sums {
		out[sku] = sum / float64(counts[sku])
	}
	return out
}

func monthlyAverage(sales Table, cols ColumnMap, unitsCol string) map[string]float64 {
	type bucket struct {
		sku   string
		month string
	}
	sums := map[bucket]float64{}
	for _, row := range sales.Rows {
		sku := cell(row, cols.SalesSKU)
		if sku == "" {
			continue
		}
		month := "unknown"
		if t, ok := coerce.Date(cell(row, cols.SalesPeriod)); ok {
			month = t.Format("2006-01")
		}
		sums[bucket{sku, month}] += coerce.Float(cell(row, unitsCol), 0)
	}

	totals := map[string]float64{}
	months := map[string]int{}
	for b, sum := range sums {
		totals[b.sku] += sum
		months[b.sku]++
	}
	out := make(map[string]float64, len(totals))
	for sku, total := range totals {
		out[sku] = total / float64(months[sku])
	}
	return out
}

// CapacityCheck is the equipment-capacity placeholder. Mixing and filling
// capacity is out of scope for this planner; the column is rendered so the
// result shape is stable when a real check lands.
func CapacityCheck(DemandRow) Status { return StatusOK }
