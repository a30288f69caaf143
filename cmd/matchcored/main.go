// Command matchcored composes and drives the matching engine in-process
// (spec.md §1: no network transport is part of this system). It loads
// configuration, wires a logging trade/market-data sink, runs a small
// scripted order sequence so the engine's behavior is observable, then
// blocks until interrupted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchcore/internal/common"
	"matchcore/internal/config"
	"matchcore/internal/engine"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults built in if omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		cfg = loaded
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(cfg)
	defer eng.Stop()

	eng.RegisterTradeSink(engine.TradeSinkFunc(func(t common.TradeExecution) {
		log.Info().Str("symbol", t.Symbol).Str("price", t.Price.String()).
			Str("quantity", t.Quantity.String()).Str("aggressor", t.AggressorSide.String()).
			Str("maker", t.MakerOrderID).Str("taker", t.TakerOrderID).Msg("trade")
	}))
	eng.RegisterMarketDataSink(engine.MarketDataSinkFunc(func(symbol string, bbo common.BestBidOffer) {
		e := log.Info().Str("symbol", symbol)
		if bbo.BestBid != nil {
			e = e.Str("bid", bbo.BestBid.Price.String())
		}
		if bbo.BestAsk != nil {
			e = e.Str("ask", bbo.BestAsk.Price.String())
		}
		e.Msg("bbo update")
	}))

	runDemo(eng, cfg.SupportedSymbols[0])

	<-ctx.Done()
}

// runDemo submits a short, illustrative sequence: two resting limits that
// don't cross, then a marketable limit that fills one of them.
func runDemo(eng *engine.Engine, symbol string) {
	now := time.Now().UTC()

	bid := common.NewOrder(uuid.NewString(), symbol, common.Buy, common.Limit,
		decimal.NewFromFloat(1.0), decimal.NewFromFloat(100), "demo-buyer", now)
	ask := common.NewOrder(uuid.NewString(), symbol, common.Sell, common.Limit,
		decimal.NewFromFloat(1.0), decimal.NewFromFloat(101), "demo-seller", now)
	taker := common.NewOrder(uuid.NewString(), symbol, common.Buy, common.Limit,
		decimal.NewFromFloat(1.0), decimal.NewFromFloat(101), "demo-taker", now)

	for _, o := range []*common.Order{bid, ask, taker} {
		res := eng.Submit(o)
		log.Info().Str("order_id", res.OrderID).Str("status", res.Status).Msg("submitted demo order")
	}
}
