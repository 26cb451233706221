// Command fieldsurvey runs the transect survey summary pipeline: it loads
// the three packed tables named by the config, splits, merges, cleans and
// aggregates them, then emits the per-transect summary as CSV and/or stores
// it in the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"fieldsurvey/internal/config"
	"fieldsurvey/internal/datasource/file"
	"fieldsurvey/internal/metrics"
	"fieldsurvey/internal/metrics/prompush"
	"fieldsurvey/internal/pipeline"
	"fieldsurvey/internal/storage"
)

func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/run.json", "run config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.Parse()

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	run, err := config.Decode(f)
	f.Close()
	if err != nil {
		fatalf("decode config: %v", err)
	}

	issues := config.Validate(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid: %v", cfgPath)
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		return
	}

	setupMetrics(run.Job, metricsBackendFlg, pushGatewayURLFlg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	if err := execute(context.Background(), run); err != nil {
		fatalf("%v", err)
	}
}

func execute(ctx context.Context, run config.Run) error {
	src, err := file.New(file.Paths{
		Observations: run.Inputs.Observations,
		Management:   run.Inputs.Management,
		Species:      run.Inputs.Species,
	}, run.Inputs.HasHeader)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Options{
		Job:       run.Job,
		Source:    src,
		Delimiter: run.Delimiter,
		RawTokens: run.Inputs.RawTokens,
	})
	if err != nil {
		return err
	}
	summary, _, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if path := run.Output.CSVPath; path != "" {
		out := os.Stdout
		if path != "-" {
			out, err = os.Create(path)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()
		}
		if err := summary.WriteCSV(out); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	if run.Storage.Kind != "" {
		repo, err := storage.New(ctx, storage.Config{
			Kind:  run.Storage.Kind,
			DSN:   run.Storage.DSN,
			Table: run.Storage.Table,
		})
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.EnsureSummaryTable(ctx); err != nil {
			return err
		}
		rows, err := storage.SummaryRows(summary)
		if err != nil {
			return err
		}
		n, err := repo.CopyFrom(ctx, storage.SummaryColumns, rows)
		if err != nil {
			return fmt.Errorf("store summary: %w", err)
		}
		metrics.RecordRows(run.Job, "stored", n)
		log.Printf("stored %d summary rows (%s)", n, run.Storage.Kind)
	}

	return nil
}

func setupMetrics(job, backendName, gatewayURL string) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}
