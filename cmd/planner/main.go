package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/weekly-planner/internal/config"
	"github.com/joelkehle/weekly-planner/internal/decision"
	"github.com/joelkehle/weekly-planner/internal/httpapi"
	"github.com/joelkehle/weekly-planner/internal/jobs"
	"github.com/joelkehle/weekly-planner/internal/plan"
	"github.com/joelkehle/weekly-planner/internal/source"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	dbFlag := flag.String("db", "", "path to SQLite database file (overrides config)")
	csvFlag := flag.String("csv-dir", "", "directory of reference-data CSV files (overrides config)")
	addrFlag := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbFlag != "" {
		cfg.SQLitePath = *dbFlag
	}
	if *csvFlag != "" {
		cfg.CSVDir = *csvFlag
	}
	if *addrFlag != "" {
		cfg.ListenAddr = *addrFlag
	}

	var decider plan.Decider
	caller, err := decision.NewAnthropicCallerFromEnv(cfg.DecisionModel)
	if err != nil {
		log.Printf("decision collaborator disabled: %v (eligible products fall back to %s)", err, plan.DecisionDoNotProduce)
	} else {
		decider = decision.NewDecider(caller)
	}

	store, err := jobs.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to initialize sqlite store (%s): %v", cfg.SQLitePath, err)
	}
	defer store.Close()
	log.Printf("using sqlite store at %s", cfg.SQLitePath)

	src := source.NewCSVDir(cfg.CSVDir)
	run := newRunner(cfg, decider, src)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	worker := jobs.NewWorker(store, run, jobs.NewNotifier(cfg.WebhookSecret))
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("worker stopped: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.NewServer(store, run),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("planner listening on %s (csv dir %s)", cfg.ListenAddr, cfg.CSVDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("planner stopped")
}

// newRunner binds one planning request to the pipeline. Inline tables win
// over the CSV source so callers can replay a run against exact inputs.
func newRunner(cfg config.Config, decider plan.Decider, src source.Source) jobs.Runner {
	return func(ctx context.Context, req jobs.Request) (plan.Result, error) {
		var tables plan.Tables
		if req.Tables != nil {
			tables = *req.Tables
		} else {
			snapshot, err := src.Load(ctx)
			if err != nil {
				return plan.Result{}, err
			}
			tables = source.PlanTables(snapshot)
		}

		policy := plan.PackagingPolicy{
			ToleranceDays:    cfg.ToleranceDays,
			EarlyArrivalIsOK: cfg.EarlyArrivalIsOK,
		}
		if req.ToleranceDays != nil {
			policy.ToleranceDays = *req.ToleranceDays
		}

		p := plan.New(decider, plan.Config{
			Policy:          policy,
			Columns:         cfg.ColumnMap(),
			Concurrency:     cfg.DecisionConcurrency,
			DecisionTimeout: time.Duration(cfg.DecisionTimeoutSeconds) * time.Second,
		})
		return p.Run(ctx, plan.Request{Week: req.Week, Demand: req.Demand, Tables: tables}), nil
	}
}
