package common

import (
	"encoding/json"
	"time"
)

// The types in this file are the wire-level JSON shapes of spec.md §6.
// Transport is out of scope for this module, but the shapes are kept here
// so a future transport layer has a single source of truth to marshal
// against. Decimal quantities are emitted as strings (via
// decimal.Decimal.String, never float64) and timestamps as RFC3339 (UTC).

type wireOrder struct {
	OrderID        string  `json:"order_id"`
	Symbol         string  `json:"symbol"`
	Side           string  `json:"side"`
	OrderType      string  `json:"order_type"`
	Quantity       string  `json:"quantity"`
	Price          *string `json:"price"`
	FilledQuantity string  `json:"filled_quantity"`
	RemainingQty   string  `json:"remaining_quantity"`
	Status         string  `json:"status"`
	Timestamp      string  `json:"timestamp"`
	UserID         *string `json:"user_id"`
}

// MarshalJSON renders an Order in the wire shape of spec.md §6.
func (o Order) MarshalJSON() ([]byte, error) {
	w := wireOrder{
		OrderID:        o.ID,
		Symbol:         o.Symbol,
		Side:           o.Side.String(),
		OrderType:      o.Type.String(),
		Quantity:       o.Original.String(),
		FilledQuantity: o.Filled.String(),
		RemainingQty:   o.Remaining.String(),
		Status:         o.Status.String(),
		Timestamp:      o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.Type.RequiresPrice() {
		p := o.Price.String()
		w.Price = &p
	}
	if o.UserID != "" {
		u := o.UserID
		w.UserID = &u
	}
	return json.Marshal(w)
}

type wireTrade struct {
	TradeID       string  `json:"trade_id"`
	Symbol        string  `json:"symbol"`
	Price         string  `json:"price"`
	Quantity      string  `json:"quantity"`
	AggressorSide string  `json:"aggressor_side"`
	MakerOrderID  string  `json:"maker_order_id"`
	TakerOrderID  string  `json:"taker_order_id"`
	Timestamp     string  `json:"timestamp"`
	Fee           *string `json:"fee"`
}

// MarshalJSON renders a TradeExecution in the wire shape of spec.md §6.
// Fee is always null: fee computation is an out-of-scope collaborator.
func (t TradeExecution) MarshalJSON() ([]byte, error) {
	w := wireTrade{
		TradeID:       t.ID,
		Symbol:        t.Symbol,
		Price:         t.Price.String(),
		Quantity:      t.Quantity.String(),
		AggressorSide: t.AggressorSide.String(),
		MakerOrderID:  t.MakerOrderID,
		TakerOrderID:  t.TakerOrderID,
		Timestamp:     t.Timestamp.UTC().Format(time.RFC3339),
	}
	return json.Marshal(w)
}

type wireLevel struct {
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	OrderCount int    `json:"order_count"`
}

func (l Level) toWire() wireLevel {
	return wireLevel{Price: l.Price.String(), Quantity: l.Quantity.String(), OrderCount: l.OrderCount}
}

// MarshalJSON renders a Level in the wire shape of spec.md §6.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.toWire())
}

type wireBBO struct {
	Symbol    string     `json:"symbol"`
	BestBid   *wireLevel `json:"best_bid"`
	BestAsk   *wireLevel `json:"best_ask"`
	Timestamp string     `json:"timestamp"`
}

// MarshalJSON renders a BestBidOffer in the wire shape of spec.md §6.
func (b BestBidOffer) MarshalJSON() ([]byte, error) {
	w := wireBBO{Symbol: b.Symbol, Timestamp: b.Timestamp.UTC().Format(time.RFC3339)}
	if b.BestBid != nil {
		l := b.BestBid.toWire()
		w.BestBid = &l
	}
	if b.BestAsk != nil {
		l := b.BestAsk.toWire()
		w.BestAsk = &l
	}
	return json.Marshal(w)
}

type wireSnapshot struct {
	Symbol    string      `json:"symbol"`
	Bids      []wireLevel `json:"bids"`
	Asks      []wireLevel `json:"asks"`
	Timestamp string      `json:"timestamp"`
}

// MarshalJSON renders an OrderBookSnapshot in the wire shape of spec.md §6.
func (s OrderBookSnapshot) MarshalJSON() ([]byte, error) {
	w := wireSnapshot{Symbol: s.Symbol, Timestamp: s.Timestamp.UTC().Format(time.RFC3339)}
	for _, lvl := range s.Bids {
		w.Bids = append(w.Bids, lvl.toWire())
	}
	for _, lvl := range s.Asks {
		w.Asks = append(w.Asks, lvl.toWire())
	}
	return json.Marshal(w)
}
