// Package plan implements the deterministic weekly production-planning
// pipeline: order consolidation, inventory netting, packaging feasibility
// explosion, and the historical consumption baseline. Everything here is a
// pure function of its inputs; the only I/O-bound step, the production
// decision, sits behind the Decider interface.
package plan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the packaging feasibility state for a component or product.
type Status string

const (
	StatusOK      Status = "OK"
	StatusRisk    Status = "RISK"
	StatusBlocked Status = "BLOCKED"
)

func severity(s Status) int {
	switch s {
	case StatusBlocked:
		return 2
	case StatusRisk:
		return 1
	default:
		return 0
	}
}

func worst(a, b Status) Status {
	if severity(b) > severity(a) {
		return b
	}
	return a
}

// Decision is a production go/no-go verdict for one product.
type Decision string

const (
	DecisionProduce         Decision = "PRODUCE"
	DecisionProduceWithRisk Decision = "PRODUCE_WITH_RISK"
	DecisionDoNotProduce    Decision = "DO_NOT_PRODUCE"
)

// ValidDecision reports whether d is one of the three allowed verdicts.
func ValidDecision(d Decision) bool {
	switch d {
	case DecisionProduce, DecisionProduceWithRisk, DecisionDoNotProduce:
		return true
	}
	return false
}

// DecisionSource records who produced an outcome: a local hard rule, the
// external collaborator, or the fail-safe fallback. Fallbacks must stay
// distinguishable from genuine model decisions.
type DecisionSource string

const (
	SourceRule     DecisionSource = "rule"
	SourceModel    DecisionSource = "model"
	SourceFallback DecisionSource = "fallback"
)

const (
	RationaleBlocked   = "packaging blocked — inviolable constraint"
	RationaleNoDemand  = "no net demand this week"
	rationaleNoDecider = "no decision collaborator configured"
)

// Outcome is a production decision with its rationale and confidence.
type Outcome struct {
	Decision   Decision       `json:"decision"`
	Rationale  string         `json:"rationale"`
	Confidence float64        `json:"confidence"`
	Source     DecisionSource `json:"source"`
}

// Payload is the self-contained per-product context handed to the decision
// collaborator. Products pre-decided by a hard rule never become payloads.
type Payload struct {
	Week            string   `json:"week"`
	SKU             string   `json:"sku"`
	NetDemand       int      `json:"net_demand"`
	PackagingStatus Status   `json:"packaging_status"`
	PackagingDetail []string `json:"packaging_detail"`
	Baseline        float64  `json:"consumption_baseline"`
}

// DemandRow is one product's demand picture for the planning week.
type DemandRow struct {
	SKU       string `json:"sku"`
	Gross     int    `json:"gross_demand"`
	Inventory int    `json:"inventory"`
	Net       int    `json:"net_demand"`
}

// ComponentCheck is the availability evaluation of one packaging component
// against one product's net demand.
type ComponentCheck struct {
	Component string          `json:"component"`
	Required  decimal.Decimal `json:"required"`
	Inventory int             `json:"inventory"`
	WIP       int             `json:"wip"`
	ETA       *time.Time      `json:"eta,omitempty"`
	Status    Status          `json:"status"`
	Note      string          `json:"note,omitempty"`
}

// PackagingResult is the rolled-up feasibility for one product. Detail is
// capped for display; Components always carries the full evaluation.
type PackagingResult struct {
	SKU        string           `json:"sku"`
	Status     Status           `json:"status"`
	Detail     []string         `json:"detail"`
	Components []ComponentCheck `json:"components,omitempty"`
}

// ProductPlan is one assembled result row.
type ProductPlan struct {
	SKU             string   `json:"sku"`
	Week            string   `json:"week"`
	GrossDemand     int      `json:"gross_demand"`
	Inventory       int      `json:"inventory"`
	NetDemand       int      `json:"net_demand"`
	PackagingStatus Status   `json:"packaging_status"`
	PackagingDetail []string `json:"packaging_detail"`
	Baseline        float64  `json:"consumption_baseline"`
	CapacityStatus  Status   `json:"capacity_status"`
	Outcome
}
