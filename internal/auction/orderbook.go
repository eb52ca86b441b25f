package auction

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Book holds the resting orders of one side in matching priority order:
// bids by price descending, asks by price ascending, ties by ascending
// sequence (first in wins).
type Book struct {
	side   Side
	orders []*Order // best first
	byID   map[OrderID]*Order
}

func NewBook(side Side) *Book {
	return &Book{
		side:   side,
		orders: make([]*Order, 0),
		byID:   make(map[OrderID]*Order),
	}
}

func (b *Book) Len() int { return len(b.orders) }

// before reports whether a has strictly higher priority than o.
func (b *Book) before(a, o *Order) bool {
	cmp := a.Price.Cmp(o.Price)
	if cmp != 0 {
		if b.side == SideBuy {
			return cmp > 0
		}
		return cmp < 0
	}
	return a.Sequence < o.Sequence
}

func (b *Book) Insert(o *Order) {
	i := sort.Search(len(b.orders), func(i int) bool {
		return b.before(o, b.orders[i])
	})
	b.orders = append(b.orders, nil)
	copy(b.orders[i+1:], b.orders[i:])
	b.orders[i] = o
	b.byID[o.ID] = o
}

// Best returns the highest-priority resting order, or false on an empty book.
func (b *Book) Best() (*Order, bool) {
	if len(b.orders) == 0 {
		return nil, false
	}
	return b.orders[0], true
}

func (b *Book) Remove(id OrderID) (*Order, error) {
	o, ok := b.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	for i, r := range b.orders {
		if r.ID == id {
			b.orders = append(b.orders[:i], b.orders[i+1:]...)
			break
		}
	}
	delete(b.byID, id)
	return o, nil
}

// Fill reduces the order's remaining quantity by qty and reports whether the
// order was fully filled and removed.
func (b *Book) Fill(id OrderID, qty decimal.Decimal) (bool, error) {
	o, ok := b.byID[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if qty.Sign() <= 0 || qty.Cmp(o.Quantity) > 0 {
		return false, ErrInvalidFill
	}
	o.Quantity = o.Quantity.Sub(qty)
	if o.Quantity.Sign() == 0 {
		if _, err := b.Remove(id); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Orders returns the resting orders in priority order. The returned slice is
// fresh but shares order pointers; callers that hand data out copy the values.
func (b *Book) Orders() []*Order {
	out := make([]*Order, len(b.orders))
	copy(out, b.orders)
	return out
}
