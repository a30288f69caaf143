package engine

import (
	"testing"
	"time"

	"matchcore/internal/common"
	"matchcore/internal/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testSymbol = "BTC-USDT"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.SupportedSymbols = []string{testSymbol}
	eng := New(cfg)
	t.Cleanup(eng.Stop)
	return eng
}

func limitOrder(side common.Side, qty, price string) *common.Order {
	return common.NewOrder(uuid.NewString(), testSymbol, side, common.Limit,
		decimal.RequireFromString(qty), decimal.RequireFromString(price), "", time.Now().UTC())
}

func marketOrder(side common.Side, qty string) *common.Order {
	return common.NewOrder(uuid.NewString(), testSymbol, side, common.Market,
		decimal.RequireFromString(qty), decimal.Zero, "", time.Now().UTC())
}

func iocOrder(side common.Side, qty, price string) *common.Order {
	return common.NewOrder(uuid.NewString(), testSymbol, side, common.IOC,
		decimal.RequireFromString(qty), decimal.RequireFromString(price), "", time.Now().UTC())
}

func fokOrder(side common.Side, qty, price string) *common.Order {
	return common.NewOrder(uuid.NewString(), testSymbol, side, common.FOK,
		decimal.RequireFromString(qty), decimal.RequireFromString(price), "", time.Now().UTC())
}

// S1 — Basic market fill.
func TestBasicMarketFill(t *testing.T) {
	eng := newTestEngine(t)

	resting := limitOrder(common.Sell, "1.0", "50000")
	res := eng.Submit(resting)
	require.Equal(t, "pending", res.Status)

	taker := marketOrder(common.Buy, "0.5")
	res = eng.Submit(taker)
	require.Equal(t, "filled", res.Status)
	require.Len(t, res.Fills, 1)
	require.True(t, res.Fills[0].Price.Equal(decimal.RequireFromString("50000")))
	require.True(t, res.Fills[0].Quantity.Equal(decimal.RequireFromString("0.5")))

	require.True(t, resting.Remaining.Equal(decimal.RequireFromString("0.5")))
	require.Equal(t, common.PartiallyFilled, resting.Status)

	bbo, ok := eng.BBO(testSymbol)
	require.True(t, ok)
	require.Nil(t, bbo.BestBid)
	require.NotNil(t, bbo.BestAsk)
	require.True(t, bbo.BestAsk.Price.Equal(decimal.RequireFromString("50000")))
	require.True(t, bbo.BestAsk.Quantity.Equal(decimal.RequireFromString("0.5")))
	require.Equal(t, 1, bbo.BestAsk.OrderCount)
}

// S2 — Price-time priority.
func TestPriceTimePriority(t *testing.T) {
	eng := newTestEngine(t)

	orderA := limitOrder(common.Sell, "1.0", "50000")
	require.Equal(t, "pending", eng.Submit(orderA).Status)
	orderB := limitOrder(common.Sell, "1.0", "50000")
	require.Equal(t, "pending", eng.Submit(orderB).Status)

	res := eng.Submit(marketOrder(common.Buy, "0.5"))
	require.Equal(t, "filled", res.Status)
	require.Len(t, res.Fills, 1)
	require.Equal(t, orderA.ID, res.Fills[0].MakerOrderID)

	require.True(t, orderA.Remaining.Equal(decimal.RequireFromString("0.5")))
	require.True(t, orderB.Remaining.Equal(decimal.RequireFromString("1.0")))

	snap, ok := eng.Snapshot(testSymbol, 10)
	require.True(t, ok)
	require.Len(t, snap.Asks, 1)
	require.True(t, snap.Asks[0].Quantity.Equal(decimal.RequireFromString("1.5")))
	require.Equal(t, 2, snap.Asks[0].OrderCount)
}

// S3 — IOC partial.
func TestIOCPartial(t *testing.T) {
	eng := newTestEngine(t)
	require.Equal(t, "pending", eng.Submit(limitOrder(common.Sell, "1.0", "50000")).Status)

	taker := iocOrder(common.Buy, "2.0", "50000")
	res := eng.Submit(taker)
	require.Equal(t, "partially_filled", res.Status)
	require.Equal(t, "1", taker.Filled.String())
	require.Equal(t, "1", taker.Remaining.String())
	require.Equal(t, common.Cancelled, taker.Status)

	bbo, ok := eng.BBO(testSymbol)
	require.True(t, ok)
	require.Nil(t, bbo.BestAsk)
}

// S4 — FOK insufficient.
func TestFOKInsufficient(t *testing.T) {
	eng := newTestEngine(t)
	require.Equal(t, "pending", eng.Submit(limitOrder(common.Sell, "0.5", "50000")).Status)

	res := eng.Submit(fokOrder(common.Buy, "1.0", "50000"))
	require.Equal(t, "cancelled", res.Status)
	require.Empty(t, res.Fills)

	snap, ok := eng.Snapshot(testSymbol, 10)
	require.True(t, ok)
	require.Len(t, snap.Asks, 1)
	require.True(t, snap.Asks[0].Quantity.Equal(decimal.RequireFromString("0.5")))
}

// S5 — FOK sufficient crossing multiple levels.
func TestFOKSufficientCrossesLevels(t *testing.T) {
	eng := newTestEngine(t)
	require.Equal(t, "pending", eng.Submit(limitOrder(common.Sell, "0.4", "50000")).Status)
	require.Equal(t, "pending", eng.Submit(limitOrder(common.Sell, "0.7", "50100")).Status)

	res := eng.Submit(fokOrder(common.Buy, "1.0", "50100"))
	require.Equal(t, "filled", res.Status)
	require.Len(t, res.Fills, 2)
	require.True(t, res.Fills[0].Price.Equal(decimal.RequireFromString("50000")))
	require.True(t, res.Fills[0].Quantity.Equal(decimal.RequireFromString("0.4")))
	require.True(t, res.Fills[1].Price.Equal(decimal.RequireFromString("50100")))
	require.True(t, res.Fills[1].Quantity.Equal(decimal.RequireFromString("0.6")))

	snap, ok := eng.Snapshot(testSymbol, 10)
	require.True(t, ok)
	require.Len(t, snap.Asks, 1)
	require.True(t, snap.Asks[0].Price.Equal(decimal.RequireFromString("50100")))
	require.True(t, snap.Asks[0].Quantity.Equal(decimal.RequireFromString("0.1")))
}

// S6 — Cancellation.
func TestCancellation(t *testing.T) {
	eng := newTestEngine(t)
	o := limitOrder(common.Buy, "1.0", "49000")
	require.Equal(t, "pending", eng.Submit(o).Status)

	res := eng.Cancel(o.ID)
	require.Equal(t, "cancelled", res.Status)

	bbo, ok := eng.BBO(testSymbol)
	require.True(t, ok)
	require.Nil(t, bbo.BestBid)

	res = eng.Cancel(o.ID)
	require.Equal(t, "error", res.Status)
	require.Equal(t, ErrOrderTerminal.Error(), res.Message)
}

// Property 2 & no-trade-through: trade price always respects the taker's
// limit (property 5), and the book never ends up crossed (property 2).
func TestNoTradeThrough(t *testing.T) {
	eng := newTestEngine(t)
	require.Equal(t, "pending", eng.Submit(limitOrder(common.Sell, "1.0", "100")).Status)

	res := eng.Submit(limitOrder(common.Buy, "1.0", "105"))
	require.Equal(t, "filled", res.Status)
	require.Len(t, res.Fills, 1)
	require.True(t, res.Fills[0].Price.Equal(decimal.RequireFromString("100")))

	bbo, _ := eng.BBO(testSymbol)
	require.Nil(t, bbo.BestBid)
	require.Nil(t, bbo.BestAsk)
}

// Round-trip: submit N limits, cancel all, book ends empty.
func TestSubmitAllThenCancelAll(t *testing.T) {
	eng := newTestEngine(t)
	var ids []string
	for i := 0; i < 5; i++ {
		o := limitOrder(common.Buy, "1.0", "100")
		require.Equal(t, "pending", eng.Submit(o).Status)
		ids = append(ids, o.ID)
	}
	for _, id := range ids {
		require.Equal(t, "cancelled", eng.Cancel(id).Status)
		o, ok := eng.GetOrder(id)
		require.True(t, ok)
		require.Equal(t, common.Cancelled, o.Status)
	}
	snap, ok := eng.Snapshot(testSymbol, 10)
	require.True(t, ok)
	require.Empty(t, snap.Bids)
	require.Empty(t, snap.Asks)
}

func TestValidationRejectsBadOrder(t *testing.T) {
	eng := newTestEngine(t)
	o := limitOrder(common.Buy, "0", "100")
	res := eng.Submit(o)
	require.Equal(t, "rejected", res.Status)
	require.Equal(t, common.Rejected, o.Status)
}

func TestUnsupportedSymbolRejected(t *testing.T) {
	eng := newTestEngine(t)
	o := common.NewOrder(uuid.NewString(), "DOGE-EUR", common.Buy, common.Limit,
		decimal.RequireFromString("1.0"), decimal.RequireFromString("1.0"), "", time.Now().UTC())
	res := eng.Submit(o)
	require.Equal(t, "rejected", res.Status)
}

func TestMarketOrderNoLiquidityRejected(t *testing.T) {
	eng := newTestEngine(t)
	res := eng.Submit(marketOrder(common.Buy, "1.0"))
	require.Equal(t, "rejected", res.Status)
	require.Equal(t, ErrNoLiquidity.Error(), res.Message)
}
