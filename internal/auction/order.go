package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// OrderID is assigned by the core at submission and never reused.
type OrderID uint64

var (
	ErrInvalidOrder  = errors.New("invalid order")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidFill   = errors.New("fill exceeds remaining quantity")
	ErrEngineStopped = errors.New("engine stopped")
)

type Order struct {
	ID          OrderID
	Participant string
	Side        Side
	Price       decimal.Decimal
	// Quantity is the unfilled remainder. It only ever decreases; an order
	// whose quantity reaches zero is removed from its book.
	Quantity decimal.Decimal
	// Sequence breaks ties between orders resting at the same price,
	// oldest first.
	Sequence  uint64
	CreatedAt time.Time
}

// Trade is the immutable record of one match. The core hands trades to the
// caller and keeps no history of its own.
type Trade struct {
	ID         string          `json:"id"`
	BuyerID    string          `json:"buyer_id"`
	SellerID   string          `json:"seller_id"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExecutedAt time.Time       `json:"executed_at"`
}
