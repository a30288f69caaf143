package engine

import (
	"matchcore/internal/book"

	"github.com/rs/zerolog/log"
)

// actor is the single-writer owner of one symbol's book (spec.md §5): all
// mutation to the book and to resting orders on that symbol happens inside
// run, on this goroutine, one command at a time. Submitters never touch
// the book directly — they post a closure to cmds and block on a reply
// channel, giving synchronous-looking calls backed by serialized access.
type actor struct {
	symbol string
	engine *Engine
	book   *book.Book
	cmds   chan func()

	// halted is set when a runtime invariant check fails after a matching
	// pass (negative aggregate quantity, a crossed book surviving the
	// pass). Per spec.md §7 the engine does not attempt to self-heal: the
	// symbol refuses further submit and cancel commands (BBO and snapshot
	// reads are still served), it is not killed.
	halted  bool
	haltMsg string
}

func newActor(symbol string, e *Engine) *actor {
	return &actor{
		symbol: symbol,
		engine: e,
		book:   book.New(symbol),
		cmds:   make(chan func(), actorMailboxSize),
	}
}

// run drains the mailbox until the engine's tomb starts dying, then runs
// whatever commands are still queued and returns.
func (a *actor) run() error {
	for {
		select {
		case <-a.engine.t.Dying():
			for {
				select {
				case fn := <-a.cmds:
					fn()
				default:
					return nil
				}
			}
		case fn := <-a.cmds:
			fn()
		}
	}
}

func (a *actor) haltedResult(orderID string) SubmitResult {
	log.Error().Str("symbol", a.symbol).Str("order_id", orderID).Str("reason", a.haltMsg).
		Msg("rejecting order: symbol halted after invariant violation")
	return SubmitResult{Status: "rejected", OrderID: orderID, Message: "symbol halted: " + a.haltMsg}
}

// checkInvariants verifies no-crossed-book and no-negative-aggregate-
// quantity (spec.md §7, §8 property 2) after a matching pass completes. A
// violation here means a trade that should have happened didn't (or vice
// versa) or a level's running total drifted from its orders — a matching
// bug, not a recoverable runtime condition.
func (a *actor) checkInvariants() {
	bid := a.book.BBO().BestBid
	ask := a.book.BBO().BestAsk
	if bid != nil && ask != nil && bid.Price.GreaterThanOrEqual(ask.Price) {
		a.halted = true
		a.haltMsg = "crossed book detected after matching pass"
		log.Error().Str("symbol", a.symbol).
			Str("best_bid", bid.Price.String()).Str("best_ask", ask.Price.String()).
			Msg("invariant violation: crossed book, halting symbol")
		return
	}

	if lvl, ok := a.book.NegativeLevel(); ok {
		a.halted = true
		a.haltMsg = "negative aggregate quantity detected after matching pass"
		log.Error().Str("symbol", a.symbol).Str("price", lvl.Price.String()).
			Str("quantity", lvl.Quantity.String()).
			Msg("invariant violation: negative aggregate quantity, halting symbol")
	}
}
