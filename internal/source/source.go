// Package source loads the named reference-data tables a planning run reads.
// The planner treats the source as an external collaborator: every run takes
// one snapshot up front and never observes mid-run changes.
package source

import (
	"context"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

const (
	TableOrders        = "orders"
	TableFinishedGoods = "finished_goods"
	TableComponents    = "packaging_components"
	TableBOM           = "bom_packaging"
	TableSales         = "sales_history"
	TableRawMaterials  = "raw_materials"
	TableFormula       = "formula"
	TableMixers        = "mixers"
	TableFillers       = "fillers"
)

// AllTables lists every table the source exposes. The core consumes five;
// the rest load and pass through for future checks.
func AllTables() []string {
	return []string{
		TableOrders,
		TableFinishedGoods,
		TableComponents,
		TableBOM,
		TableSales,
		TableRawMaterials,
		TableFormula,
		TableMixers,
		TableFillers,
	}
}

// Source fetches a consistent snapshot of all named tables. A table that
// does not exist upstream comes back empty, not as an error.
type Source interface {
	Load(ctx context.Context) (map[string]plan.Table, error)
}

// PlanTables projects a snapshot onto the tables the pipeline consumes.
func PlanTables(tables map[string]plan.Table) plan.Tables {
	return plan.Tables{
		Orders:        tables[TableOrders],
		FinishedGoods: tables[TableFinishedGoods],
		BOM:           tables[TableBOM],
		Components:    tables[TableComponents],
		Sales:         tables[TableSales],
	}
}
