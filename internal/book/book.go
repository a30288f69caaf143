package book

import (
	"time"

	"matchcore/internal/common"

	"github.com/shopspring/decimal"
)

// Book is a symbol's order book: a pair of price-level sides plus the
// operations of spec.md §4.2.
type Book struct {
	Symbol string
	bids   *side
	asks   *side
}

// New creates an empty book for symbol.
func New(symbol string) *Book {
	return &Book{Symbol: symbol, bids: newSide(bidLess), asks: newSide(askLess)}
}

func (b *Book) sideFor(s common.Side) *side {
	if s == common.Buy {
		return b.bids
	}
	return b.asks
}

// AddResting admits a resting LIMIT order to its own side at its price.
func (b *Book) AddResting(o *common.Order) {
	b.sideFor(o.Side).insert(o)
}

// Cancel removes order from its resting side, if present. Reports whether
// it was found and removed.
func (b *Book) Cancel(o *common.Order) bool {
	return b.sideFor(o.Side).remove(o)
}

// BBO returns the current best bid/offer view.
func (b *Book) BBO() common.BestBidOffer {
	bbo := common.BestBidOffer{Symbol: b.Symbol, Timestamp: time.Now().UTC()}
	if lvl := b.bids.best(); lvl != nil {
		bbo.BestBid = &common.Level{Price: lvl.Price, Quantity: lvl.Quantity, OrderCount: len(lvl.Orders)}
	}
	if lvl := b.asks.best(); lvl != nil {
		bbo.BestAsk = &common.Level{Price: lvl.Price, Quantity: lvl.Quantity, OrderCount: len(lvl.Orders)}
	}
	return bbo
}

// Snapshot returns up to depth levels per side, best to worst.
func (b *Book) Snapshot(depth int) common.OrderBookSnapshot {
	return common.OrderBookSnapshot{
		Symbol:    b.Symbol,
		Bids:      b.bids.snapshot(depth),
		Asks:      b.asks.snapshot(depth),
		Timestamp: time.Now().UTC(),
	}
}

// MarketableQuantity sums the remaining quantity resting on the opposite
// side of takerSide across every level marketable() accepts, without
// mutating the book. Used by FOK's pre-flight liquidity check.
func (b *Book) MarketableQuantity(takerSide common.Side, marketable func(decimal.Decimal) bool) decimal.Decimal {
	return b.sideFor(takerSide.Opposite()).marketableQuantity(marketable)
}

// Take walks the opposite side of takerSide in price-time priority while
// marketable(level.Price) holds, invoking fn once per resting maker order
// at the head of each marketable level. fn must report how much of that
// maker's remaining quantity it consumed (fn is expected to have already
// called maker.Fill with that amount) and whether the walk should stop.
//
// Take re-fetches the best level on every iteration rather than iterating
// a single snapshot, so it tolerates makers being fully consumed and
// levels being deleted mid-walk — the restartable-walk requirement of
// spec.md §4.2.
func (b *Book) Take(takerSide common.Side, marketable func(decimal.Decimal) bool, fn func(maker *common.Order) (consumed decimal.Decimal, stop bool)) {
	s := b.sideFor(takerSide.Opposite())
	for {
		lvl, ok := s.levels.MinMut()
		if !ok || !marketable(lvl.Price) || len(lvl.Orders) == 0 {
			return
		}
		maker := lvl.Orders[0]
		consumed, stop := fn(maker)
		lvl.Quantity = lvl.Quantity.Sub(consumed)
		if maker.Remaining.IsZero() {
			lvl.Orders = lvl.Orders[1:]
			s.orders--
		}
		if len(lvl.Orders) == 0 {
			s.levels.Delete(lvl)
		}
		if stop {
			return
		}
	}
}

// NegativeLevel reports a level with a negative aggregate quantity on
// either side, if one exists — spec.md §7's "negative aggregate quantity"
// runtime invariant.
func (b *Book) NegativeLevel() (*Level, bool) {
	if lvl, ok := b.bids.negativeLevel(); ok {
		return lvl, true
	}
	return b.asks.negativeLevel()
}

// OrderCount returns the total number of resting orders across both sides.
func (b *Book) OrderCount() int {
	return b.bids.orders + b.asks.orders
}

// Empty reports whether both sides have no resting orders.
func (b *Book) Empty() bool {
	return b.OrderCount() == 0
}
