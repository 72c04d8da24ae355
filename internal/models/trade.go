package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TradeKind says whether a racer contract was bought or sold.
type TradeKind string

const (
	TradeBuy  TradeKind = "buy"
	TradeSell TradeKind = "sell"
)

var ErrInvalidTradeKind = errors.New(`trade kind must be "buy" or "sell"`)

// RacerTrade records buying or selling a racer's contract.
// A buy debits the team balance by Price, a sell credits it.
type RacerTrade struct {
	// ID is the opaque unique identifier, assigned by the store on insert.
	ID string `json:"id"`

	// RacerName is the name of the traded racer.
	RacerName string `json:"racerName"`

	// Kind is the trade direction, buy or sell.
	Kind TradeKind `json:"kind"`

	// Price is the contract price. Never negative; the direction is
	// carried by Kind, not by the sign.
	Price decimal.Decimal `json:"price"`

	// Description is an optional note about the trade.
	Description string `json:"description,omitempty"`

	// Date is the user-entered trade date (YYYY-MM-DD).
	Date string `json:"date"`

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64 `json:"createdAt"`
}

// Validate checks the field-level invariants before the trade reaches
// the store.
func (t RacerTrade) Validate() error {
	if t.RacerName == "" {
		return ErrMissingRacer
	}
	if t.Kind != TradeBuy && t.Kind != TradeSell {
		return ErrInvalidTradeKind
	}
	if t.Price.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
