package common

import (
	"time"

	"github.com/shopspring/decimal"
)

// Level is one (price, aggregate quantity, order count) tuple of a price
// level, used by both the BBO view and book snapshots (spec.md §3, §6).
type Level struct {
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	OrderCount int
}

// BestBidOffer is the derived best-of-book view of spec.md §3: the best
// level on each side, or nil when that side is empty.
type BestBidOffer struct {
	Symbol    string
	BestBid   *Level
	BestAsk   *Level
	Timestamp time.Time
}

// OrderBookSnapshot is up to depth levels per side, best to worst.
type OrderBookSnapshot struct {
	Symbol    string
	Bids      []Level
	Asks      []Level
	Timestamp time.Time
}
