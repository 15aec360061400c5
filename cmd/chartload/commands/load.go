package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/navtool/chartload/catalog"
	"github.com/navtool/chartload/config"
	"github.com/navtool/chartload/fetch"
	"github.com/navtool/chartload/logger"
	"github.com/navtool/chartload/pipeline"
)

// LoadCmd runs the full pipeline for one or more charts.
var LoadCmd = &cobra.Command{
	Use:   "load <chart-id>...",
	Short: "Load charts through the fetch/extract/verify/decode pipeline",
	Long: `Load runs each named chart through the full pipeline: fetch the
archive from its catalog URL, extract the cell, verify its digest against
the catalog, and decode it. Transient failures retry with exponential
backoff; each retry restarts the sequence from fetch.

Examples:
  chartload load US5WA50M
  chartload load US5WA50M US5CA13M --max-attempts 5
  chartload load --debug US5WA50M          # detail, context, and traces on failure
  chartload load --events-json US5WA50M    # structured event records on stdout`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	LoadCmd.Flags().Int("max-attempts", 0, "Maximum attempts per chart (0 uses the configured default)")
	LoadCmd.Flags().Bool("debug", false, "Debug event verbosity: failure detail, context entries, and traces")
	LoadCmd.Flags().Bool("events-json", false, "Write structured event records to stdout as JSON lines")
	LoadCmd.Flags().String("catalog", "", "Catalog path override")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	if catalogPath == "" {
		catalogPath = cfg.Catalog.Path
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	debug, _ := cmd.Flags().GetBool("debug")
	eventsJSON, _ := cmd.Flags().GetBool("events-json")

	events := pipeline.NewEventLogger()
	defer events.Dispose()
	events.SetDebugMode(debug || cfg.Log.Debug)
	events.SetLineSink(func(line string) {
		pterm.Println(line)
	})
	if eventsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		var mu sync.Mutex
		events.SetStructuredSink(func(record map[string]any) {
			mu.Lock()
			defer mu.Unlock()
			_ = enc.Encode(record)
		})
	}

	loader := pipeline.NewLoader(
		pipeline.Deps{
			Fetcher: fetch.NewHTTPFetcher(cat, cfg.Fetch.CacheDir, cfg.Fetch.RatePerSec,
				time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, logger.Logger),
			Extractor: fetch.NewZipExtractor(logger.Logger),
			Decoder:   fetch.NewCellDecoder(logger.Logger),
			Digests:   cat,
		},
		pipelineConfig(cfg),
		events,
		logger.Logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	outcomes := loadAll(ctx, loader, args, maxAttempts)

	failed := 0
	for _, outcome := range outcomes {
		switch {
		case outcome.Succeeded():
			pterm.Success.Printf("%s loaded in %dms (%d retries)\n",
				outcome.ChartID, outcome.DurationMS, outcome.RetryCount)
		case outcome.Cancelled():
			pterm.Warning.Printf("%s load cancelled\n", outcome.ChartID)
			failed++
		default:
			pterm.Error.Printf("%s load failed: %s\n", outcome.ChartID, outcome.Err.Error())
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d charts did not load", failed, len(outcomes))
	}
	return nil
}

// loadAll runs every chart concurrently and returns outcomes in the
// order the charts were named.
func loadAll(ctx context.Context, loader *pipeline.Loader, chartIDs []string, maxAttempts int) []pipeline.Outcome {
	outcomes := make([]pipeline.Outcome, len(chartIDs))
	var wg sync.WaitGroup
	for i, chartID := range chartIDs {
		wg.Add(1)
		go func(i int, chartID string) {
			defer wg.Done()
			outcomes[i] = loader.LoadChart(ctx, chartID, maxAttempts)
		}(i, chartID)
	}
	wg.Wait()
	return outcomes
}

// pipelineConfig maps the file/env configuration onto the loader config.
func pipelineConfig(cfg *config.Config) pipeline.Config {
	pc := pipeline.DefaultConfig()
	if cfg.Pipeline.MaxAttempts > 0 {
		pc.MaxAttempts = cfg.Pipeline.MaxAttempts
	}
	if cfg.Pipeline.BackoffBaseMS > 0 {
		pc.Backoff.Base = time.Duration(cfg.Pipeline.BackoffBaseMS) * time.Millisecond
	}
	if cfg.Pipeline.BackoffCapMS > 0 {
		pc.Backoff.Cap = time.Duration(cfg.Pipeline.BackoffCapMS) * time.Millisecond
	}
	if cfg.Pipeline.BackoffJitter > 0 {
		pc.Backoff.Jitter = cfg.Pipeline.BackoffJitter
		pc.UseJitter = true
	}
	if cfg.Pipeline.RetryParsing {
		pc.RetryableKinds[pipeline.KindParsing] = true
	}
	return pc
}

// loadConfig resolves configuration from the --config flag, falling back
// to the default search paths and CHARTLOAD_* environment variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
