package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrMissingInvestor = errors.New("investor name is required")

// InvestorIncome records a contribution from an investor.
// Every income credits the team balance by Amount.
type InvestorIncome struct {
	// ID is the opaque unique identifier, assigned by the store on insert.
	ID string `json:"id"`

	// InvestorName is the name of the contributing investor.
	InvestorName string `json:"investorName"`

	// Amount is the contributed amount. Never negative.
	Amount decimal.Decimal `json:"amount"`

	// Description is an optional note about the contribution.
	Description string `json:"description,omitempty"`

	// Date is the user-entered contribution date (YYYY-MM-DD).
	Date string `json:"date"`

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64 `json:"createdAt"`
}

// Validate checks the field-level invariants before the income reaches
// the store.
func (i InvestorIncome) Validate() error {
	if i.InvestorName == "" {
		return ErrMissingInvestor
	}
	if i.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
