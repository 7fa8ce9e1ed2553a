package plan

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency     = 4
	DefaultDecisionTimeout = 45 * time.Second
)

// Decider renders a production decision for one eligible product. A nil
// error means Outcome carries a validated verdict; any error maps to the
// fail-safe outcome for that product only.
type Decider interface {
	Decide(ctx context.Context, payload Payload) (Outcome, error)
}

// Config tunes a Pipeline. Zero values resolve to defaults.
type Config struct {
	Policy          PackagingPolicy
	Columns         ColumnMap
	Concurrency     int
	DecisionTimeout time.Duration
}

// Tables are the reference-data snapshot one run reads. The core consumes
// four of them; the rest of the source's tables ride along untouched.
type Tables struct {
	Orders        Table
	FinishedGoods Table
	BOM           Table
	Components    Table
	Sales         Table
}

// GrossOverride supplies pre-consolidated demand, bypassing order
// consolidation for callers that already aggregated upstream.
type GrossOverride struct {
	SKU   string `json:"sku"`
	Gross int    `json:"gross_demand"`
}

// Request is one planning run's input.
type Request struct {
	Week   Week
	Demand []GrossOverride
	Tables Tables
}

// Metadata summarizes how a run's decisions were produced. Fallbacks count
// collaborator failures so operators can tell degradation from genuine
// no-go verdicts.
type Metadata struct {
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	RuleDecisions int       `json:"rule_decisions"`
	ModelCalls    int       `json:"model_calls"`
	Fallbacks     int       `json:"fallbacks"`
}

// Result is one planning run's output. Week embeds so week_start and
// week_end sit at the top level of the serialized result.
type Result struct {
	Week
	Label    string        `json:"week_label"`
	Rows     []ProductPlan `json:"results"`
	Metadata Metadata      `json:"metadata"`
}

type Pipeline struct {
	decider Decider
	cfg     Config
}

// New builds a pipeline. decider may be nil; eligible products then receive
// the fail-safe outcome.
func New(decider Decider, cfg Config) *Pipeline {
	if cfg.Columns.OrderSKU == "" {
		cfg.Columns = DefaultColumns()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.DecisionTimeout <= 0 {
		cfg.DecisionTimeout = DefaultDecisionTimeout
	}
	cfg.Policy.ToleranceDays = ClampTolerance(cfg.Policy.ToleranceDays)
	return &Pipeline{decider: decider, cfg: cfg}
}

// Run executes one planning run: consolidation, netting, packaging
// explosion, baseline, then the decision step. The deterministic part
// always completes; collaborator faults degrade individual rows to the
// fail-safe decision without hiding the rest.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	res := Result{
		Week:     req.Week,
		Label:    req.Week.Label(),
		Metadata: Metadata{StartedAt: time.Now()},
	}
	cols := p.cfg.Columns

	var gross []DemandRow
	if len(req.Demand) > 0 {
		for _, d := range req.Demand {
			if d.SKU == "" {
				continue
			}
			gross = append(gross, DemandRow{SKU: d.SKU, Gross: d.Gross})
		}
	} else {
		gross = ConsolidateDemand(req.Tables.Orders, cols, req.Week)
	}

	demand := NetDemand(gross, req.Tables.FinishedGoods, cols)
	packaging := ExplodePackaging(demand, req.Tables.BOM, req.Tables.Components, cols, req.Week.End, p.cfg.Policy)
	baseline := ConsumptionBaseline(req.Tables.Sales, cols)

	packBySKU := make(map[string]PackagingResult, len(packaging))
	for _, pr := range packaging {
		packBySKU[pr.SKU] = pr
	}

	rows := make([]ProductPlan, 0, len(demand))
	for _, d := range demand {
		pr := packBySKU[d.SKU]
		rows = append(rows, ProductPlan{
			SKU:             d.SKU,
			Week:            res.Label,
			GrossDemand:     d.Gross,
			Inventory:       d.Inventory,
			NetDemand:       d.Net,
			PackagingStatus: pr.Status,
			PackagingDetail: pr.Detail,
			Baseline:        baseline[d.SKU],
			CapacityStatus:  CapacityCheck(d),
		})
	}

	res.Rows = p.decide(ctx, rows)
	for _, r := range res.Rows {
		switch r.Source {
		case SourceRule:
			res.Metadata.RuleDecisions++
		case SourceModel:
			res.Metadata.ModelCalls++
		case SourceFallback:
			res.Metadata.Fallbacks++
		}
	}
	res.Metadata.CompletedAt = time.Now()
	return res
}

// decide applies the two inviolable pre-rules locally, then dispatches the
// remaining rows to the collaborator concurrently under the configured
// limit. One row's timeout or transport failure never aborts the others.
func (p *Pipeline) decide(ctx context.Context, rows []ProductPlan) []ProductPlan {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	var fallbacks atomic.Int64
	for i := range rows {
		row := &rows[i]

		if row.PackagingStatus == StatusBlocked {
			row.Outcome = Outcome{
				Decision:   DecisionDoNotProduce,
				Rationale:  RationaleBlocked,
				Confidence: 1.0,
				Source:     SourceRule,
			}
			continue
		}
		if row.NetDemand == 0 {
			row.Outcome = Outcome{
				Decision:   DecisionDoNotProduce,
				Rationale:  RationaleNoDemand,
				Confidence: 1.0,
				Source:     SourceRule,
			}
			continue
		}
		if p.decider == nil {
			row.Outcome = fallbackOutcome(rationaleNoDecider)
			fallbacks.Add(1)
			continue
		}

		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.DecisionTimeout)
			defer cancel()

			out, err := p.decider.Decide(callCtx, Payload{
				Week:            row.Week,
				SKU:             row.SKU,
				NetDemand:       row.NetDemand,
				PackagingStatus: row.PackagingStatus,
				PackagingDetail: row.PackagingDetail,
				Baseline:        row.Baseline,
			})
			if err != nil {
				log.Printf("decision fallback for %s: %v", row.SKU, err)
				row.Outcome = fallbackOutcome("decision collaborator failed: " + err.Error())
				fallbacks.Add(1)
				return nil
			}
			out.Source = SourceModel
			row.Outcome = out
			return nil
		})
	}
	_ = g.Wait()

	if n := fallbacks.Load(); n > 0 {
		log.Printf("decision step degraded: %d of %d rows fell back to %s", n, len(rows), DecisionDoNotProduce)
	}
	return rows
}

func fallbackOutcome(rationale string) Outcome {
	return Outcome{
		Decision:   DecisionDoNotProduce,
		Rationale:  rationale,
		Confidence: 0,
		Source:     SourceFallback,
	}
}
