package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the mutable order record described in spec.md §3: a stable
// identity plus fill state. The engine owning an order's symbol is the
// only writer of its mutable fields once the order exists; everything
// else only reads it.
type Order struct {
	ID        string // opaque unique order identifier, assigned on creation
	Symbol    string // uppercase ticker
	Side      Side
	Type      OrderType
	Original  decimal.Decimal // original requested quantity, immutable
	Price     decimal.Decimal // limit price; zero value iff Type == Market
	Filled    decimal.Decimal // monotonically non-decreasing
	Remaining decimal.Decimal // derived: Original - Filled
	Status    OrderStatus
	CreatedAt time.Time // monotonic arrival time, used as the time-priority tie-breaker
	UserID    string    // optional
}

// NewOrder constructs a pending order with Remaining initialized from
// Original. It does not validate; validation is the engine's job so that
// rejected orders still carry a well-formed status.
func NewOrder(id, symbol string, side Side, typ OrderType, qty, price decimal.Decimal, userID string, now time.Time) *Order {
	return &Order{
		ID:        id,
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Original:  qty,
		Price:     price,
		Filled:    decimal.Zero,
		Remaining: qty,
		Status:    Pending,
		CreatedAt: now,
		UserID:    userID,
	}
}

// Fill records a partial or complete execution against this order. The
// caller (the matching walk) is responsible for never passing a qty
// greater than Remaining; Fill does not clamp, so a caller bug surfaces
// immediately as a negative Remaining instead of being silently absorbed.
func (o *Order) Fill(qty decimal.Decimal) {
	o.Filled = o.Filled.Add(qty)
	o.Remaining = o.Original.Sub(o.Filled)
	if o.Remaining.IsZero() {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Resting reports whether this order belongs in exactly one price level of
// exactly one book side right now, per the resting-order definition of
// spec.md §3.
func (o *Order) Resting() bool {
	return o.Type == Limit && (o.Status == Pending || o.Status == PartiallyFilled) && o.Remaining.IsPositive()
}

// Marketable reports whether an incoming order could execute immediately
// given the current best opposite-side prices. Ported from the
// is_marketable check in original_source/src/models/order.py; it is an
// optimization-only pre-check — the matching walk itself is always the
// final arbiter of whether and how much actually fills.
func (o *Order) Marketable(bestBid, bestAsk *decimal.Decimal) bool {
	switch o.Type {
	case Market:
		return true
	case Limit, IOC, FOK:
		if o.Side == Buy && bestAsk != nil && o.Price.GreaterThanOrEqual(*bestAsk) {
			return true
		}
		if o.Side == Sell && bestBid != nil && o.Price.LessThanOrEqual(*bestBid) {
			return true
		}
	}
	return false
}

func (o *Order) String() string {
	return fmt.Sprintf(
		`ID:        %s
Symbol:    %s
Side:      %s
Type:      %s
Price:     %s
Quantity:  %s (filled %s, remaining %s)
Status:    %s
CreatedAt: %s
UserID:    %s`,
		o.ID, o.Symbol, o.Side, o.Type, o.Price.String(),
		o.Original.String(), o.Filled.String(), o.Remaining.String(),
		o.Status, o.CreatedAt.Format(time.RFC3339Nano), o.UserID,
	)
}
