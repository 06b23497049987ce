package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/marketdata/internal/cache"
	"github.com/rickgao/marketdata/internal/config"
	"github.com/rickgao/marketdata/internal/contract"
	"github.com/rickgao/marketdata/internal/database"
)

func main() {
	configPath := flag.String("config", "configs/marketdata.yaml", "path to config file")
	underlying := flag.String("underlying", "", "underlying ticker, e.g. SPY or 510050")
	priceFlag := flag.String("price", "", "reference price")
	dateFlag := flag.String("date", "", "reference date YYYY-MM-DD (default: today)")
	typeFlag := flag.String("type", "call", "call or put")
	itm := flag.Bool("itm", false, "restrict to in-the-money strikes")
	symbol := flag.String("symbol", "", "load the series of this canonical symbol instead of resolving")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *symbol == "" && (*underlying == "" || *priceFlag == "") {
		fmt.Fprintln(os.Stderr, "usage: resolver -underlying SPY -price 245.38 [-date 2017-08-15] [-type put] [-itm]")
		fmt.Fprintln(os.Stderr, "       resolver -symbol SPY170915C00245000")
		os.Exit(2)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database, "resolver-"+cfg.Instance.ID)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := contract.NewService(database.NewOptionStore(pool),
		cache.NewManager(cache.WithSize(cfg.Resolver.CacheSize)),
		contract.WithCacheTTL(cfg.Resolver.CacheTTL),
		contract.WithLookbackDays(cfg.Resolver.LookbackDays),
		contract.WithLogger(logger),
	)

	target := *symbol
	if target == "" {
		req, err := buildRequest(*underlying, *priceFlag, *dateFlag, *typeFlag, *itm)
		if err != nil {
			logger.Error("invalid request", "error", err)
			os.Exit(2)
		}
		target, err = svc.FindSymbol(ctx, req)
		if err != nil {
			logger.Error("failed to resolve contract", "error", err)
			os.Exit(1)
		}
	}

	quotes, err := svc.Series(ctx, target)
	if err != nil {
		logger.Error("failed to load series", "symbol", target, "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\t%d quotes", target, len(quotes))
	if n := len(quotes); n > 0 {
		last := quotes[n-1]
		fmt.Printf("\tlast %s price=%.4f delta=%.4f iv=%.4f",
			last.TradeTime.Format(time.RFC3339), last.LastPrice, last.Delta, last.Volatility)
	}
	fmt.Println()
}

func buildRequest(underlying, price, date, typ string, itm bool) (contract.Request, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return contract.Request{}, fmt.Errorf("price %q: %w", price, err)
	}
	optType, err := contract.ParseOptionType(typ)
	if err != nil {
		return contract.Request{}, err
	}
	req := contract.Request{
		Underlying:     underlying,
		Price:          p,
		Type:           optType,
		InTheMoneyOnly: itm,
	}
	if date != "" {
		if req.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return contract.Request{}, fmt.Errorf("date %q: %w", date, err)
		}
	}
	return req, nil
}
