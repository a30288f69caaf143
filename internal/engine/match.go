package engine

import (
	"time"

	"matchcore/internal/common"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// submit routes order per its type (spec.md §4.3) and runs entirely inside
// the owning actor's goroutine — the uninterrupted critical section of
// spec.md §5 covering validate → route → walk → emit → update.
func (a *actor) submit(o *common.Order) SubmitResult {
	if a.halted {
		return a.haltedResult(o.ID)
	}

	switch o.Type {
	case common.Market:
		return a.submitMarket(o)
	case common.Limit:
		return a.submitLimit(o)
	case common.IOC:
		return a.submitIOC(o)
	case common.FOK:
		return a.submitFOK(o)
	default:
		o.Status = common.Rejected
		return SubmitResult{Status: "rejected", OrderID: o.ID, Message: "unsupported order type"}
	}
}

// marketableBound returns the predicate that decides which opposite-side
// levels are marketable against o, per spec.md §4.1's walk_from_best rule.
// MARKET orders are unconstrained ("walk everything").
func marketableBound(o *common.Order) func(decimal.Decimal) bool {
	if o.Type == common.Market {
		return func(decimal.Decimal) bool { return true }
	}
	if o.Side == common.Buy {
		return func(levelPrice decimal.Decimal) bool { return levelPrice.LessThanOrEqual(o.Price) }
	}
	return func(levelPrice decimal.Decimal) bool { return levelPrice.GreaterThanOrEqual(o.Price) }
}

// matchWalk runs the matching-walk pseudocode of spec.md §4.3 against the
// book's opposite side, stopping when the taker is fully filled or no more
// marketable makers remain. It returns the fills produced, in the order
// produced, and emits each one to trade sinks as it is produced (still
// inside the critical section, per spec.md §5's ordering guarantee).
func (a *actor) matchWalk(taker *common.Order, marketable func(decimal.Decimal) bool) []common.TradeExecution {
	var fills []common.TradeExecution
	now := time.Now().UTC()

	a.book.Take(taker.Side, marketable, func(maker *common.Order) (decimal.Decimal, bool) {
		qty := decimal.Min(taker.Remaining, maker.Remaining)
		price := maker.Price // price improvement always accrues to the taker

		taker.Fill(qty)
		maker.Fill(qty)

		trade := common.TradeExecution{
			ID:            uuid.NewString(),
			Symbol:        taker.Symbol,
			Price:         price,
			Quantity:      qty,
			AggressorSide: taker.Side,
			MakerOrderID:  maker.ID,
			TakerOrderID:  taker.ID,
			Timestamp:     now,
		}
		fills = append(fills, trade)
		a.engine.emitTrade(trade)

		return qty, taker.Remaining.IsZero()
	})

	return fills
}

func result(o *common.Order, status string, fills []common.TradeExecution, message string) SubmitResult {
	return SubmitResult{
		Status:       status,
		OrderID:      o.ID,
		Fills:        fills,
		FilledQty:    o.Filled.String(),
		RemainingQty: o.Remaining.String(),
		Message:      message,
	}
}

// submitMarket: walk unconstrained; any remainder is discarded, never
// rests (spec.md §4.3, Open Question 1: discarded, not retryable).
func (a *actor) submitMarket(o *common.Order) SubmitResult {
	opposite := o.Side.Opposite()
	if a.bookEmpty(opposite) {
		o.Status = common.Rejected
		return result(o, "rejected", nil, ErrNoLiquidity.Error())
	}

	fills := a.matchWalk(o, marketableBound(o))
	a.checkInvariants()
	if len(fills) > 0 {
		a.engine.emitMarketData(a.symbol, a.book.BBO())
	}
	if o.Remaining.IsZero() {
		return result(o, "filled", fills, "")
	}
	// Residual discarded: a MARKET order never rests.
	o.Status = common.PartiallyFilled
	return result(o, "partially_filled", fills, "")
}

// submitLimit: walk bounded by order.Price; any remainder rests on the own
// side.
func (a *actor) submitLimit(o *common.Order) SubmitResult {
	fills := a.matchWalk(o, marketableBound(o))

	bookChanged := len(fills) > 0
	if o.Remaining.IsPositive() {
		a.book.AddResting(o)
		bookChanged = true
	}

	a.checkInvariants()
	if bookChanged {
		a.engine.emitMarketData(a.symbol, a.book.BBO())
	}

	switch {
	case o.Remaining.IsZero():
		return result(o, "filled", fills, "")
	case len(fills) > 0:
		return result(o, "partially_filled", fills, "")
	default:
		return result(o, "pending", fills, "")
	}
}

// submitIOC: like LIMIT, but any remainder is cancelled, never rests
// (spec.md §8 property 7: no IOC order is ever present in the book after
// submit returns).
func (a *actor) submitIOC(o *common.Order) SubmitResult {
	fills := a.matchWalk(o, marketableBound(o))
	a.checkInvariants()
	if len(fills) > 0 {
		a.engine.emitMarketData(a.symbol, a.book.BBO())
	}

	if o.Remaining.IsPositive() {
		o.Status = common.Cancelled
	}
	if len(fills) == 0 {
		return result(o, "cancelled", fills, "")
	}
	if o.Remaining.IsZero() {
		return result(o, "filled", fills, "")
	}
	return result(o, "partially_filled", fills, "")
}

// submitFOK: dry-run the marketable quantity first; only attempt the real
// walk if it is guaranteed to fill completely (spec.md §4.3, §9 Open
// Question 2 — the two-pass structure is kept as specified even though a
// single per-symbol lock makes it redundant against concurrent mutation).
func (a *actor) submitFOK(o *common.Order) SubmitResult {
	bound := marketableBound(o)
	available := a.book.MarketableQuantity(o.Side, bound)
	if available.LessThan(o.Remaining) {
		o.Status = common.Cancelled
		return result(o, "cancelled", nil, "")
	}

	fills := a.matchWalk(o, bound)
	a.checkInvariants()
	if len(fills) > 0 {
		a.engine.emitMarketData(a.symbol, a.book.BBO())
	}

	if o.Remaining.IsPositive() {
		// Unreachable per the pre-check above; guard against a matching
		// bug rather than silently resting an FOK remainder.
		o.Status = common.Cancelled
		log.Error().Str("order_id", o.ID).Str("symbol", a.symbol).
			Msg("FOK order left a remainder after a sufficient dry run")
		return result(o, "cancelled", fills, "unexpected partial fill")
	}
	return result(o, "filled", fills, "")
}

// cancel implements spec.md §4.3's cancel operation: look up (already done
// by the engine), remove from the book if resting, mark terminal.
func (a *actor) cancel(o *common.Order) CancelResult {
	if a.halted {
		return CancelResult{Status: "error", OrderID: o.ID, Message: "symbol halted: " + a.haltMsg}
	}
	if o.Status.Terminal() {
		return CancelResult{Status: "error", OrderID: o.ID, Message: ErrOrderTerminal.Error()}
	}

	found := a.book.Cancel(o)
	o.Status = common.Cancelled

	if found {
		a.checkInvariants()
		a.engine.emitMarketData(a.symbol, a.book.BBO())
	}
	return CancelResult{Status: "cancelled", OrderID: o.ID}
}

func (a *actor) bookEmpty(side common.Side) bool {
	bbo := a.book.BBO()
	if side == common.Buy {
		return bbo.BestAsk == nil
	}
	return bbo.BestBid == nil
}
