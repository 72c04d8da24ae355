package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingRacer    = errors.New("racer is required")
	ErrMissingItem     = errors.New("item is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

// EquipmentPurchase records equipment bought for a racer.
// Every purchase debits the team balance by Quantity × UnitPrice.
type EquipmentPurchase struct {
	// ID is the opaque unique identifier, assigned by the store on insert.
	ID string `json:"id"`

	// Racer is the name of the racer the equipment was bought for.
	Racer string `json:"racer"`

	// Item is the name of the purchased part.
	Item string `json:"item"`

	// Quantity is the number of units bought. Always positive.
	Quantity int `json:"quantity"`

	// UnitPrice is the price per unit. Never negative.
	UnitPrice decimal.Decimal `json:"unitPrice"`

	// Date is the user-entered purchase date (YYYY-MM-DD).
	Date string `json:"date"`

	// CreatedAt is the Unix timestamp when the row was inserted.
	CreatedAt int64 `json:"createdAt"`
}

// LineTotal returns Quantity × UnitPrice.
func (p EquipmentPurchase) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Validate checks the field-level invariants before the purchase
// reaches the store.
func (p EquipmentPurchase) Validate() error {
	if p.Racer == "" {
		return ErrMissingRacer
	}
	if p.Item == "" {
		return ErrMissingItem
	}
	if p.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
