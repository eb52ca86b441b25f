package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Core combines the two books, the participant index and the matcher behind
// one command surface. It is not safe for concurrent use; Engine serializes
// access to it.
//
// Every operation validates before it mutates, so a rejected command leaves
// all state unchanged.
type Core struct {
	bids    *Book
	asks    *Book
	parts   *ParticipantIndex
	matcher *Matcher

	nextID  OrderID
	nextSeq uint64
	now     func() time.Time
}

func NewCore() *Core {
	bids := NewBook(SideBuy)
	asks := NewBook(SideSell)
	parts := NewParticipantIndex()
	return &Core{
		bids:    bids,
		asks:    asks,
		parts:   parts,
		matcher: NewMatcher(bids, asks, parts),
		now:     time.Now,
	}
}

func (c *Core) bookFor(side Side) *Book {
	if side == SideBuy {
		return c.bids
	}
	return c.asks
}

// Submit rests a new order on its side's book and returns the assigned id.
func (c *Core) Submit(participant string, side Side, price, quantity decimal.Decimal) (OrderID, error) {
	if participant == "" {
		return 0, fmt.Errorf("%w: participant required", ErrInvalidOrder)
	}
	if side != SideBuy && side != SideSell {
		return 0, fmt.Errorf("%w: unknown side %q", ErrInvalidOrder, side)
	}
	if price.Sign() <= 0 {
		return 0, fmt.Errorf("%w: price must be positive", ErrInvalidOrder)
	}
	if quantity.Sign() <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}

	c.nextID++
	c.nextSeq++
	o := &Order{
		ID:          c.nextID,
		Participant: participant,
		Side:        side,
		Price:       price,
		Quantity:    quantity,
		Sequence:    c.nextSeq,
		CreatedAt:   c.now(),
	}
	c.bookFor(side).Insert(o)
	c.parts.Add(o)
	return o.ID, nil
}

// Cancel removes one resting order. The id must exist and belong to the
// participant; otherwise nothing changes and ErrOrderNotFound is returned.
func (c *Core) Cancel(participant string, id OrderID) error {
	o, ok := c.parts.Get(participant, id)
	if !ok {
		return ErrOrderNotFound
	}
	if _, err := c.bookFor(o.Side).Remove(id); err != nil {
		return err
	}
	c.parts.Remove(participant, id)
	return nil
}

// CancelAll removes every resting order the participant owns, on both sides,
// and returns how many were removed. Zero is a valid result.
func (c *Core) CancelAll(participant string) int {
	removed := c.parts.Clear(participant)
	for _, o := range removed {
		// ids in the index are always live in their book
		if _, err := c.bookFor(o.Side).Remove(o.ID); err != nil {
			panic(fmt.Sprintf("book/index drift for order %d: %v", o.ID, err))
		}
	}
	return len(removed)
}

// RunMatchingPass matches crossing orders until none remain and returns the
// trades in execution order.
func (c *Core) RunMatchingPass() ([]Trade, error) {
	return c.matcher.Run()
}

// Snapshot returns value copies of both books in priority order, taken at a
// single point in time.
func (c *Core) Snapshot() (bids, asks []Order) {
	return copyOrders(c.bids.Orders()), copyOrders(c.asks.Orders())
}

// OrdersOf returns value copies of the participant's live orders, oldest
// first.
func (c *Core) OrdersOf(participant string) []Order {
	return copyOrders(c.parts.OrdersOf(participant))
}

func copyOrders(in []*Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = *o
	}
	return out
}
