package plan

import "strings"

// Table is a raw named table from the reference data source: an ordered
// header plus rows of column name to cell text. Shape is never trusted;
// consumers validate column presence and degrade per table.
type Table struct {
	Name    string              `json:"name"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Empty reports whether the table carries no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// HasColumns reports whether every named column is present in the header.
func (t Table) HasColumns(cols ...string) bool {
	for _, want := range cols {
		found := false
		for _, have := range t.Columns {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func cell(row map[string]string, col string) string {
	return strings.TrimSpace(row[col])
}

// SchemaVersion identifies the column-mapping generation below. The source
// variants of this pipeline forked over header drift; here the mapping is
// declared configuration instead.
const SchemaVersion = 1

// ColumnMap names the logical columns the core reads from each table.
type ColumnMap struct {
	OrderSKU  string `yaml:"order_sku"`
	OrderQty  string `yaml:"order_qty"`
	OrderDate string `yaml:"order_date"`

	ProductSKU       string `yaml:"product_sku"`
	ProductInventory string `yaml:"product_inventory"`

	BOMSKU       string `yaml:"bom_sku"`
	BOMComponent string `yaml:"bom_component"`
	BOMQtyPer    string `yaml:"bom_qty_per"`

	ComponentID        string `yaml:"component_id"`
	ComponentInventory string `yaml:"component_inventory"`
	ComponentWIP       string `yaml:"component_wip"`
	ComponentETA       string `yaml:"component_eta"`

	SalesSKU    string `yaml:"sales_sku"`
	SalesPeriod string `yaml:"sales_period"`
	// SalesUnits lists candidate unit columns; the first one present wins.
	SalesUnits []string `yaml:"sales_units"`
}

// DefaultColumns is the schema v1 mapping.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		OrderSKU:  "SKU",
		OrderQty:  "Quantity",
		OrderDate: "Required_Date",

		ProductSKU:       "SKU",
		ProductInventory: "Inventory",

		BOMSKU:       "SKU",
		BOMComponent: "Component",
		BOMQtyPer:    "Qty_Per_Unit",

		ComponentID:        "Component",
		ComponentInventory: "Inventory",
		ComponentWIP:       "In_Process",
		ComponentETA:       "ETA",

		SalesSKU:    "SKU",
		SalesPeriod: "Month",
		SalesUnits:  []string{"Units", "Sales", "Quantity"},
	}
}
