// Package ledger derives balances from the three ledger collections.
//
// Everything here is a pure function of the collections passed in:
// nothing is cached, so a summary always reflects the state its caller
// just fetched. All arithmetic is exact decimal arithmetic; rounding
// happens only at display time (see Format).
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/speedsyndicate/ledger/internal/models"
)

// Summary holds the derived totals for the ledger.
type Summary struct {
	// TotalExpenses is the sum of quantity × unit price over all
	// equipment purchases.
	TotalExpenses decimal.Decimal `json:"totalExpenses"`

	// TotalInvestorIncome is the sum of all investor contributions.
	TotalInvestorIncome decimal.Decimal `json:"totalInvestorIncome"`

	// RacerTradeBalance is the signed sum over racer trades:
	// sells add, buys subtract.
	RacerTradeBalance decimal.Decimal `json:"racerTradeBalance"`

	// CurrentBalance is income − expenses + trade balance, starting
	// from a zero initial balance. It can be negative: the calculator
	// imposes no floor, the submission guard does.
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// Compute derives the summary from the current collections.
func Compute(purchases []models.EquipmentPurchase, incomes []models.InvestorIncome, trades []models.RacerTrade) Summary {
	var s Summary

	for _, p := range purchases {
		s.TotalExpenses = s.TotalExpenses.Add(p.LineTotal())
	}
	for _, i := range incomes {
		s.TotalInvestorIncome = s.TotalInvestorIncome.Add(i.Amount)
	}
	for _, t := range trades {
		if t.Kind == models.TradeSell {
			s.RacerTradeBalance = s.RacerTradeBalance.Add(t.Price)
		} else {
			s.RacerTradeBalance = s.RacerTradeBalance.Sub(t.Price)
		}
	}

	s.CurrentBalance = s.TotalInvestorIncome.
		Sub(s.TotalExpenses).
		Add(s.RacerTradeBalance)
	return s
}

// CanAffordDebit reports whether debiting the given amount would keep
// the current balance at or above zero. Submissions that fail this
// check are rejected before they reach the store.
func (s Summary) CanAffordDebit(amount decimal.Decimal) bool {
	return s.CurrentBalance.GreaterThanOrEqual(amount)
}
