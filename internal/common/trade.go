package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeExecution is the immutable trade record of spec.md §3. Execution
// price is always the maker's limit price — price improvement accrues to
// the taker (the internal order protection guarantee).
type TradeExecution struct {
	ID            string
	Symbol        string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	AggressorSide Side // taker's side
	MakerOrderID  string
	TakerOrderID  string
	Timestamp     time.Time
}

func (t TradeExecution) String() string {
	return fmt.Sprintf(
		`ID:       %s
Symbol:   %s
Price:    %s
Quantity: %s
Aggressor: %s
Maker:    %s
Taker:    %s
Timestamp: %s`,
		t.ID, t.Symbol, t.Price.String(), t.Quantity.String(),
		t.AggressorSide, t.MakerOrderID, t.TakerOrderID,
		t.Timestamp.Format(time.RFC3339Nano),
	)
}
