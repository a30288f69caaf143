package book

import (
	"testing"
	"time"

	"matchcore/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newOrder(side common.Side, qty, price string) *common.Order {
	return common.NewOrder(uuid.NewString(), "BTC-USDT", side, common.Limit,
		decimal.RequireFromString(qty), decimal.RequireFromString(price), "", time.Now().UTC())
}

func TestAddRestingAggregatesQuantity(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(newOrder(common.Sell, "1.0", "50000"))
	b.AddResting(newOrder(common.Sell, "0.5", "50000"))

	bbo := b.BBO()
	require.NotNil(t, bbo.BestAsk)
	require.True(t, bbo.BestAsk.Quantity.Equal(decimal.RequireFromString("1.5")))
	require.Equal(t, 2, bbo.BestAsk.OrderCount)
}

func TestCancelRemovesEmptyLevel(t *testing.T) {
	b := New("BTC-USDT")
	o := newOrder(common.Buy, "1.0", "49000")
	b.AddResting(o)
	require.False(t, b.Empty())

	require.True(t, b.Cancel(o))
	require.True(t, b.Empty())
	require.Nil(t, b.BBO().BestBid)
}

func TestCancelUnknownOrderReportsNotFound(t *testing.T) {
	b := New("BTC-USDT")
	o := newOrder(common.Buy, "1.0", "49000")
	require.False(t, b.Cancel(o))
}

func TestBBOOrdersBidsDescendingAsksAscending(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(newOrder(common.Buy, "1.0", "100"))
	b.AddResting(newOrder(common.Buy, "1.0", "105"))
	b.AddResting(newOrder(common.Sell, "1.0", "110"))
	b.AddResting(newOrder(common.Sell, "1.0", "108"))

	bbo := b.BBO()
	require.True(t, bbo.BestBid.Price.Equal(decimal.RequireFromString("105")))
	require.True(t, bbo.BestAsk.Price.Equal(decimal.RequireFromString("108")))
}

func TestSnapshotRespectsDepth(t *testing.T) {
	b := New("BTC-USDT")
	for _, p := range []string{"100", "99", "98", "97"} {
		b.AddResting(newOrder(common.Buy, "1.0", p))
	}

	snap := b.Snapshot(2)
	require.Len(t, snap.Bids, 2)
	require.True(t, snap.Bids[0].Price.Equal(decimal.RequireFromString("100")))
	require.True(t, snap.Bids[1].Price.Equal(decimal.RequireFromString("99")))
}

func TestTakeConsumesHeadOfLevelAndRestartsAfterDeletion(t *testing.T) {
	b := New("BTC-USDT")
	a := newOrder(common.Sell, "1.0", "100")
	c := newOrder(common.Sell, "1.0", "101")
	b.AddResting(a)
	b.AddResting(c)

	taker := newOrder(common.Buy, "1.5", "101")
	var consumedFrom []string
	b.Take(common.Buy, func(price decimal.Decimal) bool { return price.LessThanOrEqual(taker.Price) },
		func(maker *common.Order) (decimal.Decimal, bool) {
			qty := decimal.Min(taker.Remaining, maker.Remaining)
			taker.Fill(qty)
			maker.Fill(qty)
			consumedFrom = append(consumedFrom, maker.ID)
			return qty, taker.Remaining.IsZero()
		})

	require.Equal(t, []string{a.ID, c.ID}, consumedFrom)
	require.True(t, taker.Remaining.IsZero())
	require.True(t, a.Remaining.IsZero())
	require.True(t, c.Remaining.Equal(decimal.RequireFromString("0.5")))

	snap := b.Snapshot(10)
	require.Len(t, snap.Asks, 1)
	require.True(t, snap.Asks[0].Quantity.Equal(decimal.RequireFromString("0.5")))
}

func TestNegativeLevelDetectsCorruptedAggregate(t *testing.T) {
	b := New("BTC-USDT")
	o := newOrder(common.Sell, "1.0", "50000")
	b.AddResting(o)

	_, ok := b.NegativeLevel()
	require.False(t, ok)

	lvl, found := b.asks.levels.GetMut(&Level{Price: o.Price})
	require.True(t, found)
	lvl.Quantity = decimal.RequireFromString("-0.5")

	bad, ok := b.NegativeLevel()
	require.True(t, ok)
	require.True(t, bad.Price.Equal(o.Price))
}

func TestMarketableQuantityDoesNotMutate(t *testing.T) {
	b := New("BTC-USDT")
	b.AddResting(newOrder(common.Sell, "0.4", "50000"))
	b.AddResting(newOrder(common.Sell, "0.7", "50100"))

	total := b.MarketableQuantity(common.Buy, func(price decimal.Decimal) bool {
		return price.LessThanOrEqual(decimal.RequireFromString("50100"))
	})
	require.True(t, total.Equal(decimal.RequireFromString("1.1")))

	snap := b.Snapshot(10)
	require.Len(t, snap.Asks, 2)
}
