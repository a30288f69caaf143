package engine

import "matchcore/internal/common"

// TradeSink and MarketDataSink are the typed sink interfaces of spec.md
// §6/§9: a single on_event method per concern, replacing the teacher's
// (and the original Python source's) callback-list-of-possibly-async-
// functions pattern. The runtime, not the engine, decides whether an
// implementation blocks or hands off — the engine only requires that
// OnTrade/OnMarketData return quickly, since both are called from inside
// the per-symbol critical section (spec.md §5).
type TradeSink interface {
	OnTrade(common.TradeExecution)
}

// MarketDataSink receives one BBO update per book-changing operation.
type MarketDataSink interface {
	OnMarketData(symbol string, bbo common.BestBidOffer)
}

// TradeSinkFunc adapts a plain function to a TradeSink.
type TradeSinkFunc func(common.TradeExecution)

func (f TradeSinkFunc) OnTrade(t common.TradeExecution) { f(t) }

// MarketDataSinkFunc adapts a plain function to a MarketDataSink.
type MarketDataSinkFunc func(string, common.BestBidOffer)

func (f MarketDataSinkFunc) OnMarketData(symbol string, bbo common.BestBidOffer) { f(symbol, bbo) }
