// Package models defines the core domain models for the racing-team ledger.
//
// The ledger is made of three insertion-ordered collections:
//   - EquipmentPurchase: parts bought for a racer, always a debit
//   - InvestorIncome: contributions from investors, always a credit
//   - RacerTrade: buying (debit) or selling (credit) a racer's contract
//
// Entries are immutable once created: they are inserted with a fresh id
// and removed by id, never updated in place. Monetary fields are stored
// as non-negative decimals; whether an amount debits or credits the
// balance is encoded by the collection (or the trade kind), never by a
// negative stored value.
//
// ShareLink and User back the share-access and owner-login surfaces and
// are not part of the ledger itself.
package models
