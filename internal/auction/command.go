package auction

import "github.com/shopspring/decimal"

type commandType int

const (
	cmdSubmit commandType = iota
	cmdCancel
	cmdCancelAll
	cmdMatch
	cmdSnapshot
	cmdOrdersOf
)

type command struct {
	typ         commandType
	participant string
	side        Side
	price       decimal.Decimal
	quantity    decimal.Decimal
	id          OrderID
	resp        chan any // engine sends the result back here
}
