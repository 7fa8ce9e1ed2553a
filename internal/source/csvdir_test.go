package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVDirLoad(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, TableOrders, "SKU,Quantity,Required_Date\nSKU1,100,2026-01-20\nSKU2,30,2026-01-21\n")
	writeCSV(t, dir, TableFinishedGoods, "SKU,Inventory\nSKU1,30\n")

	tables, err := NewCSVDir(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	orders := tables[TableOrders]
	if len(orders.Rows) != 2 || orders.Rows[0]["SKU"] != "SKU1" || orders.Rows[0]["Quantity"] != "100" {
		t.Fatalf("orders = %+v", orders)
	}
	if !orders.HasColumns("SKU", "Quantity", "Required_Date") {
		t.Fatalf("orders columns = %v", orders.Columns)
	}

	// Files absent from the directory come back as empty tables.
	for _, name := range []string{TableBOM, TableMixers} {
		if got := tables[name]; !got.Empty() || got.Name != name {
			t.Fatalf("%s = %+v, want empty table", name, got)
		}
	}
}

func TestCSVDirRaggedRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, TableComponents, "Component,Inventory,In_Process,ETA\nCAP1,50,30\nCAP2,10,0,2026-01-27\n")

	tables, err := NewCSVDir(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	comps := tables[TableComponents]
	if len(comps.Rows) != 2 {
		t.Fatalf("rows = %d", len(comps.Rows))
	}
	if comps.Rows[0]["ETA"] != "" || comps.Rows[1]["ETA"] != "2026-01-27" {
		t.Fatalf("rows = %+v", comps.Rows)
	}
}

func TestPlanTablesProjection(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, TableSales, "SKU,Month,Units\nSKU1,2025-12,80\n")
	tables, err := NewCSVDir(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pt := PlanTables(tables)
	if pt.Sales.Empty() || pt.Sales.Rows[0]["Units"] != "80" {
		t.Fatalf("sales = %+v", pt.Sales)
	}
}
