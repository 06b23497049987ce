package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/marketdata/internal/backfill"
	"github.com/rickgao/marketdata/internal/calendar"
	"github.com/rickgao/marketdata/internal/config"
	"github.com/rickgao/marketdata/internal/database"
	"github.com/rickgao/marketdata/internal/version"
	"github.com/rickgao/marketdata/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/marketdata.yaml", "path to config file")
	dateFlag := flag.String("date", "", "trading date YYYY-MM-DD (default: latest trading date)")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbols (default: backfill.symbols)")
	table := flag.String("table", database.TableEquityMin, "bar table to repair")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting backfill",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	switch *table {
	case database.TableEquityMin, database.TableEquityRealtime:
	default:
		logger.Error("unknown table", "table", *table)
		os.Exit(2)
	}

	cal, err := calendar.FromConfig(cfg.Calendar)
	if err != nil {
		logger.Error("failed to build trading calendar", "error", err)
		os.Exit(1)
	}

	var date time.Time
	if *dateFlag != "" {
		date, err = time.ParseInLocation(time.DateOnly, *dateFlag, cal.Location())
		if err != nil {
			logger.Error("invalid date", "date", *dateFlag, "error", err)
			os.Exit(2)
		}
	}

	symbols := cfg.Backfill.Symbols
	if *symbolsFlag != "" {
		symbols = strings.Split(strings.ToUpper(*symbolsFlag), ",")
	}
	if len(symbols) == 0 {
		logger.Error("no symbols to backfill")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database, "backfill-"+cfg.Instance.ID)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	svc := backfill.New(cal,
		database.NewEquityStore(pool, *table),
		writer.NewBarWriter(pool, *table, logger),
		backfill.WithLogger(logger),
		backfill.WithConcurrency(cfg.Backfill.Concurrency),
	)

	start := time.Now()
	results, err := svc.FullDayAll(ctx, symbols, date)

	filled := 0
	for _, r := range results {
		filled += r.Filled
		logger.Info("symbol done",
			"symbol", r.Symbol,
			"run_id", r.RunID,
			"filled", r.Filled,
			"skipped", r.Skipped,
		)
	}

	logger.Info("backfill complete",
		"symbols", len(symbols),
		"filled", filled,
		"duration", time.Since(start),
	)

	if err != nil {
		logger.Error("backfill finished with errors", "error", err)
		os.Exit(1)
	}
}
