package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Matcher executes matching passes over the two books. It holds no state of
// its own across passes beyond the book mutations it performs.
type Matcher struct {
	bids  *Book
	asks  *Book
	parts *ParticipantIndex
	now   func() time.Time
}

func NewMatcher(bids, asks *Book, parts *ParticipantIndex) *Matcher {
	return &Matcher{bids: bids, asks: asks, parts: parts, now: time.Now}
}

// Run performs one matching pass: while the best bid price is at or above the
// best ask price, the two head orders trade min(remaining) at the midpoint of
// their prices. Fully filled orders leave their book and the participant
// index; a partially filled order keeps its place at the head. The pass halts
// once a book empties or the books stop crossing.
func (m *Matcher) Run() ([]Trade, error) {
	trades := make([]Trade, 0)

	for {
		buy, ok := m.bids.Best()
		if !ok {
			break
		}
		sell, ok := m.asks.Best()
		if !ok {
			break
		}
		if buy.Price.Cmp(sell.Price) < 0 {
			break
		}

		qty := decimal.Min(buy.Quantity, sell.Quantity)
		// Midpoint clearing price splits the surplus between the two
		// sides; it always lies in [sell.Price, buy.Price].
		price := buy.Price.Add(sell.Price).Div(two)

		trades = append(trades, Trade{
			ID:         uuid.NewString(),
			BuyerID:    buy.Participant,
			SellerID:   sell.Participant,
			Price:      price,
			Quantity:   qty,
			ExecutedAt: m.now(),
		})

		filled, err := m.bids.Fill(buy.ID, qty)
		if err != nil {
			return trades, err
		}
		if filled {
			m.parts.Remove(buy.Participant, buy.ID)
		}
		filled, err = m.asks.Fill(sell.ID, qty)
		if err != nil {
			return trades, err
		}
		if filled {
			m.parts.Remove(sell.Participant, sell.ID)
		}
	}

	return trades, nil
}
