package plan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joelkehle/weekly-planner/internal/coerce"
)

// MaxDetailNotes caps the human-readable detail list per product. The full
// component evaluation is always computed and kept; only the rendered list
// is bounded.
const MaxDetailNotes = 6

// PackagingPolicy configures the feasibility evaluation.
type PackagingPolicy struct {
	// ToleranceDays extends the usable arrival window past week end.
	ToleranceDays int
	// EarlyArrivalIsOK counts a WIP-covered shortage as OK when its arrival
	// lands on or before week end. Off by default; the strict rule treats
	// any WIP dependence as RISK.
	EarlyArrivalIsOK bool
}

const (
	MinToleranceDays     = 0
	MaxToleranceDays     = 14
	DefaultToleranceDays = 3
)

// ClampTolerance bounds a configured tolerance to the allowed range.
func ClampTolerance(days int) int {
	if days < MinToleranceDays {
		return MinToleranceDays
	}
	if days > MaxToleranceDays {
		return MaxToleranceDays
	}
	return days
}

type componentStock struct {
	inventory int
	wip       int
	eta       *time.Time
}

type bomLine struct {
	sku       string
	component string
	qtyPer    decimal.Decimal
}

// ExplodePackaging explodes net demand through the packaging BOM and rolls
// per-component availability up to a per-product status. It is a pure
// function of its inputs. A BOM or component table missing required columns
// degrades every demanded product to RISK with a diagnostic note so the rest
// of the run still renders.
func ExplodePackaging(demand []DemandRow, bom, components Table, cols ColumnMap, weekEnd time.Time, pol PackagingPolicy) []PackagingResult {
	if len(demand) == 0 {
		return nil
	}
	if bom.Empty() || !bom.HasColumns(cols.BOMSKU, cols.BOMComponent, cols.BOMQtyPer) {
		return degradeAll(demand, "packaging BOM table incomplete")
	}
	if components.Empty() || !components.HasColumns(cols.ComponentID, cols.ComponentInventory, cols.ComponentWIP, cols.ComponentETA) {
		return degradeAll(demand, "packaging component table incomplete")
	}

	lines := map[string][]bomLine{}
	for _, row := range bom.Rows {
		sku := cell(row, cols.BOMSKU)
		comp := cell(row, cols.BOMComponent)
		if sku == "" || comp == "" {
			continue
		}
		lines[sku] = append(lines[sku], bomLine{
			sku:       sku,
			component: comp,
			qtyPer:    coerce.Decimal(cell(row, cols.BOMQtyPer), decimal.Zero),
		})
	}

	stock := map[string]componentStock{}
	for _, row := range components.Rows {
		id := cell(row, cols.ComponentID)
		if id == "" {
			continue
		}
		cs := componentStock{
			inventory: coerce.Int(cell(row, cols.ComponentInventory), 0),
			wip:       coerce.Int(cell(row, cols.ComponentWIP), 0),
		}
		if eta, ok := coerce.Date(cell(row, cols.ComponentETA)); ok {
			cs.eta = &eta
		}
		stock[id] = cs
	}

	latestUsable := day(weekEnd).AddDate(0, 0, ClampTolerance(pol.ToleranceDays))

	out := make([]PackagingResult, 0, len(demand))
	for _, d := range demand {
		out = append(out, explodeProduct(d, lines[d.SKU], stock, day(weekEnd), latestUsable, pol))
	}
	return out
}

func explodeProduct(d DemandRow, lines []bomLine, stock map[string]componentStock, weekEnd, latestUsable time.Time, pol PackagingPolicy) PackagingResult {
	res := PackagingResult{SKU: d.SKU, Status: StatusOK}
	if d.Net <= 0 {
		return res
	}

	net := decimal.NewFromInt(int64(d.Net))
	for _, line := range lines {
		check := ComponentCheck{
			Component: line.component,
			Required:  line.qtyPer.Mul(net),
		}
		cs, found := stock[line.component]
		if !found {
			// Missing reference data is unavailability, not zero impact.
			check.Status = StatusBlocked
			check.Note = fmt.Sprintf("%s: not found in component table", line.component)
			res.Components = append(res.Components, check)
			res.Status = worst(res.Status, check.Status)
			continue
		}
		check.Inventory = cs.inventory
		check.WIP = cs.wip
		check.ETA = cs.eta
		check.Status, check.Note = evaluateComponent(check, cs, weekEnd, latestUsable, pol)
		res.Components = append(res.Components, check)
		res.Status = worst(res.Status, check.Status)
	}

	for _, c := range res.Components {
		if c.Status == StatusOK || len(res.Detail) >= MaxDetailNotes {
			continue
		}
		res.Detail = append(res.Detail, c.Note)
	}
	return res
}

func evaluateComponent(check ComponentCheck, cs componentStock, weekEnd, latestUsable time.Time, pol PackagingPolicy) (Status, string) {
	required := check.Required
	if required.LessThanOrEqual(decimal.Zero) {
		return StatusOK, ""
	}
	inv := decimal.NewFromInt(int64(cs.inventory))
	if inv.GreaterThanOrEqual(required) {
		return StatusOK, ""
	}
	if cs.eta == nil {
		return StatusBlocked, fmt.Sprintf("%s: short %s, no arrival date", check.Component, required.Sub(inv))
	}
	if cs.eta.After(latestUsable) {
		return StatusBlocked, fmt.Sprintf("%s: arrival %s outside tolerance window", check.Component, cs.eta.Format(time.DateOnly))
	}
	withWIP := inv.Add(decimal.NewFromInt(int64(cs.wip)))
	if withWIP.LessThan(required) {
		return StatusBlocked, fmt.Sprintf("%s: short %s even with in-process supply", check.Component, required.Sub(withWIP))
	}
	if pol.EarlyArrivalIsOK && !cs.eta.After(weekEnd) {
		return StatusOK, ""
	}
	return StatusRisk, fmt.Sprintf("%s: covered by arrival %s", check.Component, cs.eta.Format(time.DateOnly))
}

func degradeAll(demand []DemandRow, note string) []PackagingResult {
	out := make([]PackagingResult, 0, len(demand))
	for _, d := range demand {
		if d.Net <= 0 {
			out = append(out, PackagingResult{SKU: d.SKU, Status: StatusOK})
			continue
		}
		out = append(out, PackagingResult{SKU: d.SKU, Status: StatusRisk, Detail: []string{note}})
	}
	return out
}
