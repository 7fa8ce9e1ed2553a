// plan-run executes one planning run against a directory of CSV tables and
// prints the result, for demos and for checking a week without the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joelkehle/weekly-planner/internal/coerce"
	"github.com/joelkehle/weekly-planner/internal/decision"
	"github.com/joelkehle/weekly-planner/internal/plan"
	"github.com/joelkehle/weekly-planner/internal/report"
	"github.com/joelkehle/weekly-planner/internal/source"
)

func main() {
	csvDir := flag.String("csv-dir", "data/tables", "directory of reference-data CSV files")
	weekOf := flag.String("week", "", "any date inside the planning week (default: current week)")
	tolerance := flag.Int("tolerance", plan.DefaultToleranceDays, "late-arrival tolerance in days")
	earlyOK := flag.Bool("early-ok", false, "treat arrivals before week end as fully available")
	format := flag.String("format", "table", "output format: table, markdown or json")
	noLLM := flag.Bool("no-llm", false, "skip the decision collaborator; eligible products fall back")
	model := flag.String("model", "", "decision model override")
	flag.Parse()

	week := plan.WeekOf(time.Now())
	if *weekOf != "" {
		ref, ok := coerce.Date(*weekOf)
		if !ok {
			log.Fatalf("-week %q is not a date", *weekOf)
		}
		week = plan.WeekOf(ref)
	}

	var decider plan.Decider
	if !*noLLM {
		caller, err := decision.NewAnthropicCallerFromEnv(*model)
		if err != nil {
			log.Printf("decision collaborator disabled: %v", err)
		} else {
			decider = decision.NewDecider(caller)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	snapshot, err := source.NewCSVDir(*csvDir).Load(ctx)
	if err != nil {
		log.Fatalf("load tables from %s: %v", *csvDir, err)
	}

	p := plan.New(decider, plan.Config{
		Policy: plan.PackagingPolicy{ToleranceDays: *tolerance, EarlyArrivalIsOK: *earlyOK},
	})
	res := p.Run(ctx, plan.Request{Week: week, Tables: source.PlanTables(snapshot)})

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal(err)
		}
	case "markdown":
		fmt.Print(report.Markdown(res))
	case "table":
		printTable(res)
	default:
		log.Fatalf("unknown format %q", *format)
	}
}

func printTable(res plan.Result) {
	fmt.Printf("Planning week %s\n\n", res.Label)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tGROSS\tINV\tNET\tPACKAGING\tCAPACITY\tDECISION\tCONF")
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%.2f\n",
			row.SKU, row.GrossDemand, row.Inventory, row.NetDemand,
			row.PackagingStatus, row.CapacityStatus, row.Decision, row.Confidence)
	}
	tw.Flush()

	fmt.Printf("\ndecisions: %d by rule, %d by model, %d fallbacks\n",
		res.Metadata.RuleDecisions, res.Metadata.ModelCalls, res.Metadata.Fallbacks)
	for _, row := range res.Rows {
		if line := detailLine(row); line != "" {
			fmt.Println(line)
		}
	}
}

func detailLine(row plan.ProductPlan) string {
	if len(row.PackagingDetail) == 0 {
		return ""
	}
	return fmt.Sprintf("  %s: %s", row.SKU, strings.Join(row.PackagingDetail, "; "))
}
