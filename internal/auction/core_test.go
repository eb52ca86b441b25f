package auction

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRejectsInvalidOrders(t *testing.T) {
	c := NewCore()

	cases := []struct {
		name        string
		participant string
		side        Side
		price       string
		quantity    string
	}{
		{"zero price", "u1", SideBuy, "0", "5"},
		{"negative price", "u1", SideBuy, "-1", "5"},
		{"zero quantity", "u1", SideSell, "10", "0"},
		{"negative quantity", "u1", SideSell, "10", "-3"},
		{"missing participant", "", SideBuy, "10", "5"},
		{"bad side", "u1", Side("HOLD"), "10", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Submit(tc.participant, tc.side, dec(tc.price), dec(tc.quantity))
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}

	// nothing rested
	bids, asks := c.Snapshot()
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestSubmitAssignsUniqueMonotonicIDs(t *testing.T) {
	c := NewCore()
	var last OrderID
	for i := 0; i < 10; i++ {
		id, err := c.Submit("u1", SideBuy, dec("10"), dec("1"))
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestCancelUnknownOrderChangesNothing(t *testing.T) {
	c := NewCore()
	id, err := c.Submit("u1", SideBuy, dec("10"), dec("5"))
	require.NoError(t, err)

	assert.ErrorIs(t, c.Cancel("u1", id+100), ErrOrderNotFound)

	bids, _ := c.Snapshot()
	require.Len(t, bids, 1)
	assert.True(t, bids[0].Quantity.Equal(dec("5")))
}

func TestCancelRejectsWrongOwner(t *testing.T) {
	c := NewCore()
	id, err := c.Submit("u1", SideSell, dec("9"), dec("5"))
	require.NoError(t, err)

	assert.ErrorIs(t, c.Cancel("u2", id), ErrOrderNotFound)

	_, asks := c.Snapshot()
	require.Len(t, asks, 1)
}

func TestCancelRemovesExactlyOneOrder(t *testing.T) {
	c := NewCore()
	id1, _ := c.Submit("u1", SideBuy, dec("10"), dec("5"))
	id2, _ := c.Submit("u1", SideBuy, dec("10"), dec("5")) // same price and quantity
	require.NotEqual(t, id1, id2)

	require.NoError(t, c.Cancel("u1", id1))

	bids, _ := c.Snapshot()
	require.Len(t, bids, 1)
	assert.Equal(t, id2, bids[0].ID)
	assert.True(t, bids[0].Quantity.Equal(dec("5")))

	assert.ErrorIs(t, c.Cancel("u1", id1), ErrOrderNotFound)
}

func TestCancelAllSweepsBothSides(t *testing.T) {
	c := NewCore()
	c.Submit("u1", SideBuy, dec("10"), dec("5"))
	c.Submit("u1", SideSell, dec("12"), dec("5"))
	c.Submit("u2", SideBuy, dec("9"), dec("5"))

	assert.Equal(t, 2, c.CancelAll("u1"))
	assert.Equal(t, 0, c.CancelAll("u1"))

	bids, asks := c.Snapshot()
	require.Len(t, bids, 1)
	assert.Equal(t, "u2", bids[0].Participant)
	assert.Empty(t, asks)
}

func TestMatchingPassThroughFacade(t *testing.T) {
	c := NewCore()
	c.Submit("alice", SideBuy, dec("10"), dec("5"))
	c.Submit("bob", SideSell, dec("8"), dec("5"))

	trades, err := c.RunMatchingPass()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "alice", trades[0].BuyerID)
	assert.Equal(t, "bob", trades[0].SellerID)
	assert.True(t, trades[0].Price.Equal(dec("9")))
	assert.True(t, trades[0].Quantity.Equal(dec("5")))

	bids, asks := c.Snapshot()
	assert.Empty(t, bids)
	assert.Empty(t, asks)
	assert.Empty(t, c.OrdersOf("alice"))
	assert.Empty(t, c.OrdersOf("bob"))
}

func TestSnapshotIsPrioritySortedCopy(t *testing.T) {
	c := NewCore()
	c.Submit("u1", SideBuy, dec("10"), dec("5"))
	c.Submit("u2", SideBuy, dec("12"), dec("5"))
	c.Submit("u3", SideSell, dec("15"), dec("5"))
	c.Submit("u4", SideSell, dec("14"), dec("5"))

	bids, asks := c.Snapshot()
	require.Len(t, bids, 2)
	require.Len(t, asks, 2)
	assert.True(t, bids[0].Price.Equal(dec("12")))
	assert.True(t, asks[0].Price.Equal(dec("14")))

	// mutating the snapshot must not touch the book
	bids[0].Quantity = decimal.Zero
	again, _ := c.Snapshot()
	assert.True(t, again[0].Quantity.Equal(dec("5")))
}

func TestOrdersOfReturnsCopies(t *testing.T) {
	c := NewCore()
	c.Submit("u1", SideBuy, dec("10"), dec("5"))

	mine := c.OrdersOf("u1")
	require.Len(t, mine, 1)
	mine[0].Quantity = decimal.Zero

	again := c.OrdersOf("u1")
	assert.True(t, again[0].Quantity.Equal(dec("5")))
}
