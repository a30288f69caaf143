// Package engine is the matching engine of spec.md §4.3: validation,
// per-type order routing, the price-time-priority matching walk, trade and
// market-data event emission, and per-symbol serialized access.
//
// Concurrency follows spec.md §5's "actor mailbox... single-threaded task
// owning the book" option: each supported symbol is owned by exactly one
// goroutine (actor.go), supervised by gopkg.in/tomb.v2 — the same
// supervision primitive the teacher used for its TCP worker pool
// (internal/worker.go), repurposed here from connection-handling to
// per-symbol book ownership. This replaces the "mutex around the entire
// engine" anti-pattern spec.md §9 calls out: symbols never contend with
// each other.
package engine

import (
	"sync"
	"sync/atomic"

	"matchcore/internal/common"
	"matchcore/internal/config"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const actorMailboxSize = 256

// SubmitResult is the Engine API response of spec.md §6's submit row.
type SubmitResult struct {
	Status       string
	OrderID      string
	Fills        []common.TradeExecution
	FilledQty    string
	RemainingQty string
	Message      string
}

// CancelResult is the Engine API response of spec.md §6's cancel row.
type CancelResult struct {
	Status  string
	OrderID string
	Message string
}

// Engine is the matching engine's top-level state (spec.md §3): a mapping
// from supported symbol to its actor (which owns that symbol's book), a
// cross-symbol order index for lookup/cancellation routing, the registered
// sinks, and a running flag.
type Engine struct {
	cfg    *config.Config
	actors map[string]*actor
	orders sync.Map // order id -> *common.Order

	running atomic.Bool
	t       *tomb.Tomb

	sinkMu          sync.RWMutex
	tradeSinks      []TradeSink
	marketDataSinks []MarketDataSink
}

// New constructs an engine with one actor goroutine per configured
// supported symbol and starts them immediately.
func New(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:    cfg,
		actors: make(map[string]*actor, len(cfg.SupportedSymbols)),
		t:      new(tomb.Tomb),
	}
	for _, symbol := range cfg.SupportedSymbols {
		a := newActor(symbol, e)
		e.actors[symbol] = a
		e.t.Go(a.run)
	}
	e.running.Store(true)
	log.Info().Int("symbols", len(e.actors)).Msg("matching engine started")
	return e
}

// Stop stops accepting new orders and waits for every actor to drain its
// mailbox and exit.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	e.t.Kill(nil)
	_ = e.t.Wait()
	log.Info().Msg("matching engine stopped")
}

// RegisterTradeSink adds a trade sink. Safe to call concurrently with
// itself and with emission, not required to be called before Submit.
func (e *Engine) RegisterTradeSink(s TradeSink) {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	e.tradeSinks = append(e.tradeSinks, s)
}

// RegisterMarketDataSink adds a market-data sink.
func (e *Engine) RegisterMarketDataSink(s MarketDataSink) {
	e.sinkMu.Lock()
	defer e.sinkMu.Unlock()
	e.marketDataSinks = append(e.marketDataSinks, s)
}

// emitTrade fans a trade out to every registered trade sink. Each sink is
// invoked under recover so a panicking sink cannot abort the matching pass
// that produced the trade (spec.md §7: sink failures are caught internally
// and logged, never propagated).
func (e *Engine) emitTrade(t common.TradeExecution) {
	e.sinkMu.RLock()
	sinks := e.tradeSinks
	e.sinkMu.RUnlock()
	for _, s := range sinks {
		e.safeCall(func() { s.OnTrade(t) }, "trade sink panicked")
	}
}

// emitMarketData fans a BBO update out to every registered market-data
// sink. Emitted at most once per book-changing operation, after all trade
// events that operation produced (spec.md §5's ordering guarantee).
func (e *Engine) emitMarketData(symbol string, bbo common.BestBidOffer) {
	e.sinkMu.RLock()
	sinks := e.marketDataSinks
	e.sinkMu.RUnlock()
	for _, s := range sinks {
		e.safeCall(func() { s.OnMarketData(symbol, bbo) }, "market data sink panicked")
	}
}

func (e *Engine) safeCall(fn func(), msg string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg(msg)
		}
	}()
	fn()
}

// Submit validates and routes an order, blocking synchronously until the
// owning symbol actor has processed it to completion (spec.md §6).
func (e *Engine) Submit(o *common.Order) SubmitResult {
	if !e.running.Load() {
		return SubmitResult{Status: "error", OrderID: o.ID, Message: ErrEngineStopped.Error()}
	}

	if err := e.validate(o); err != nil {
		o.Status = common.Rejected
		e.orders.Store(o.ID, o)
		log.Info().Str("order_id", o.ID).Str("symbol", o.Symbol).Err(err).Msg("order rejected at validation")
		return SubmitResult{Status: "rejected", OrderID: o.ID, Message: err.Error()}
	}

	e.orders.Store(o.ID, o)
	a := e.actors[o.Symbol]
	reply := make(chan SubmitResult, 1)
	a.cmds <- func() { reply <- a.submit(o) }
	return <-reply
}

// Cancel requests cancellation of orderID, blocking until the owning
// symbol actor has processed it (spec.md §6).
func (e *Engine) Cancel(orderID string) CancelResult {
	if !e.running.Load() {
		return CancelResult{Status: "error", OrderID: orderID, Message: ErrEngineStopped.Error()}
	}

	v, ok := e.orders.Load(orderID)
	if !ok {
		return CancelResult{Status: "error", OrderID: orderID, Message: ErrOrderNotFound.Error()}
	}
	o := v.(*common.Order)
	a := e.actors[o.Symbol]
	reply := make(chan CancelResult, 1)
	a.cmds <- func() { reply <- a.cancel(o) }
	return <-reply
}

// GetOrder returns the order by id, if known. Order.Symbol/ID/Type/Side/
// Price/Original/CreatedAt/UserID never change after creation, so reading
// them from outside the owning actor is safe without synchronization;
// Filled/Remaining/Status are a point-in-time read that may race a
// concurrently matching actor, which is the documented, intentional
// semantics of a read-only lookup API.
func (e *Engine) GetOrder(orderID string) (*common.Order, bool) {
	v, ok := e.orders.Load(orderID)
	if !ok {
		return nil, false
	}
	return v.(*common.Order), true
}

// BBO returns the current best bid/offer for symbol, or false if symbol is
// not supported.
func (e *Engine) BBO(symbol string) (common.BestBidOffer, bool) {
	a, ok := e.actors[symbol]
	if !ok {
		return common.BestBidOffer{}, false
	}
	reply := make(chan common.BestBidOffer, 1)
	a.cmds <- func() { reply <- a.book.BBO() }
	return <-reply, true
}

// Snapshot returns up to depth levels per side for symbol. depth <= 0
// falls back to the configured default snapshot depth.
func (e *Engine) Snapshot(symbol string, depth int) (common.OrderBookSnapshot, bool) {
	a, ok := e.actors[symbol]
	if !ok {
		return common.OrderBookSnapshot{}, false
	}
	if depth <= 0 {
		depth = e.cfg.SnapshotDepth
	}
	reply := make(chan common.OrderBookSnapshot, 1)
	a.cmds <- func() { reply <- a.book.Snapshot(depth) }
	return <-reply, true
}

// SupportedSymbols lists every symbol this engine was configured with.
func (e *Engine) SupportedSymbols() []string {
	out := make([]string, 0, len(e.actors))
	for s := range e.actors {
		out = append(out, s)
	}
	return out
}
