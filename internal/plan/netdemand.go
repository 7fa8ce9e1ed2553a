package plan

import "github.com/joelkehle/weekly-planner/internal/coerce"

// NetDemand subtracts finished-goods inventory from gross demand, floored at
// zero. Products absent from the inventory table net at full gross; a
// missing or malformed inventory table counts as zero inventory everywhere.
func NetDemand(gross []DemandRow, products Table, cols ColumnMap) []DemandRow {
	inventory := map[string]int{}
	if !products.Empty() && products.HasColumns(cols.ProductSKU, cols.ProductInventory) {
		for _, row := range products.Rows {
			sku := cell(row, cols.ProductSKU)
			if sku == "" {
				continue
			}
			inventory[sku] = coerce.Int(cell(row, cols.ProductInventory), 0)
		}
	}

	out := make([]DemandRow, 0, len(gross))
	for _, d := range gross {
		inv := inventory[d.SKU]
		net := d.Gross - inv
		if net < 0 {
			net = 0
		}
		out = append(out, DemandRow{SKU: d.SKU, Gross: d.Gross, Inventory: inv, Net: net})
	}
	return out
}
