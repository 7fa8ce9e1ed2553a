package plan

import "time"

func tbl(name string, columns []string, rows ...[]string) Table {
	t := Table{Name: name, Columns: columns}
	for _, r := range rows {
		row := map[string]string{}
		for i, col := range columns {
			if i < len(r) {
				row[col] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func testWeek() Week {
	// Monday 2026-01-19 through Sunday 2026-01-25.
	return NewWeek(
		time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC),
	)
}

func ordersTable(rows ...[]string) Table {
	return tbl("orders", []string{"SKU", "Quantity", "Required_Date"}, rows...)
}

func productsTable(rows ...[]string) Table {
	return tbl("finished_goods", []string{"SKU", "Inventory"}, rows...)
}

func bomTable(rows ...[]string) Table {
	return tbl("bom_packaging", []string{"SKU", "Component", "Qty_Per_Unit"}, rows...)
}

func componentsTable(rows ...[]string) Table {
	return tbl("packaging_components", []string{"Component", "Inventory", "In_Process", "ETA"}, rows...)
}
