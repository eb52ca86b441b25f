package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hakimelghazi/auction-core/internal/auction"
)

func main() {
	core := auction.NewCore()

	// alice wants to buy 10 @ 10, bob sells 4 @ 9
	buyID, _ := core.Submit("alice", auction.SideBuy,
		decimal.NewFromInt(10), decimal.NewFromInt(10))
	sellID, _ := core.Submit("bob", auction.SideSell,
		decimal.NewFromInt(9), decimal.NewFromInt(4))
	fmt.Printf("resting: buy=%d sell=%d\n", buyID, sellID)

	trades, err := core.RunMatchingPass()
	if err != nil {
		panic(err)
	}
	for _, tr := range trades {
		fmt.Printf("trade: %s buys %s from %s at %s\n",
			tr.BuyerID, tr.Quantity, tr.SellerID, tr.Price)
	}

	bids, asks := core.Snapshot()
	fmt.Printf("book after pass: %d bids, %d asks\n", len(bids), len(asks))
	for _, o := range bids {
		fmt.Printf("  bid %d: %s @ %s (%s)\n", o.ID, o.Quantity, o.Price, o.Participant)
	}
}
