package ledger

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/speedsyndicate/ledger/internal/models"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeScenario(t *testing.T) {
	var (
		equipment []models.EquipmentPurchase
		incomes   []models.InvestorIncome
		trades    []models.RacerTrade
	)

	// Empty ledger.
	s := Compute(equipment, incomes, trades)
	if !s.CurrentBalance.IsZero() {
		t.Fatalf("empty ledger balance = %s, want 0", s.CurrentBalance)
	}

	// 2 × 150 equipment purchase.
	equipment = append(equipment, models.EquipmentPurchase{
		Racer: "Racer 1", Item: "Extrapart", Quantity: 2, UnitPrice: dec(150),
	})
	s = Compute(equipment, incomes, trades)
	if !s.TotalExpenses.Equal(dec(300)) {
		t.Errorf("totalExpenses = %s, want 300", s.TotalExpenses)
	}
	if !s.CurrentBalance.Equal(dec(-300)) {
		t.Errorf("currentBalance = %s, want -300", s.CurrentBalance)
	}

	// 5000 investor income.
	incomes = append(incomes, models.InvestorIncome{InvestorName: "John Investor", Amount: dec(5000)})
	s = Compute(equipment, incomes, trades)
	if !s.CurrentBalance.Equal(dec(4700)) {
		t.Errorf("currentBalance = %s, want 4700", s.CurrentBalance)
	}

	// Buy a racer for 2000.
	trades = append(trades, models.RacerTrade{RacerName: "Speed Racer", Kind: models.TradeBuy, Price: dec(2000)})
	s = Compute(equipment, incomes, trades)
	if !s.CurrentBalance.Equal(dec(2700)) {
		t.Errorf("currentBalance = %s, want 2700", s.CurrentBalance)
	}

	// Sell a racer for 3000.
	trades = append(trades, models.RacerTrade{RacerName: "Speed Racer", Kind: models.TradeSell, Price: dec(3000)})
	s = Compute(equipment, incomes, trades)
	if !s.CurrentBalance.Equal(dec(5700)) {
		t.Errorf("currentBalance = %s, want 5700", s.CurrentBalance)
	}
}

func TestComputeBalanceIdentity(t *testing.T) {
	// For any sequence of inserts and deletes, the balance must equal
	// income − expenses + trade balance exactly.
	rng := rand.New(rand.NewSource(42))

	var (
		equipment []models.EquipmentPurchase
		incomes   []models.InvestorIncome
		trades    []models.RacerTrade
	)

	for step := 0; step < 500; step++ {
		switch rng.Intn(6) {
		case 0:
			equipment = append(equipment, models.EquipmentPurchase{
				Racer:     "Racer",
				Item:      "Part",
				Quantity:  1 + rng.Intn(5),
				UnitPrice: decimal.New(int64(rng.Intn(100000)), -2), // cents
			})
		case 1:
			incomes = append(incomes, models.InvestorIncome{
				InvestorName: "Investor",
				Amount:       decimal.New(int64(rng.Intn(100000)), -2),
			})
		case 2:
			kind := models.TradeBuy
			if rng.Intn(2) == 0 {
				kind = models.TradeSell
			}
			trades = append(trades, models.RacerTrade{
				RacerName: "Racer",
				Kind:      kind,
				Price:     decimal.New(int64(rng.Intn(100000)), -2),
			})
		case 3:
			if len(equipment) > 0 {
				i := rng.Intn(len(equipment))
				equipment = append(equipment[:i], equipment[i+1:]...)
			}
		case 4:
			if len(incomes) > 0 {
				i := rng.Intn(len(incomes))
				incomes = append(incomes[:i], incomes[i+1:]...)
			}
		case 5:
			if len(trades) > 0 {
				i := rng.Intn(len(trades))
				trades = append(trades[:i], trades[i+1:]...)
			}
		}

		s := Compute(equipment, incomes, trades)
		want := s.TotalInvestorIncome.Sub(s.TotalExpenses).Add(s.RacerTradeBalance)
		if !s.CurrentBalance.Equal(want) {
			t.Fatalf("step %d: currentBalance = %s, want %s", step, s.CurrentBalance, want)
		}
	}
}

func TestTradeRoundTrip(t *testing.T) {
	// A buy at price P followed by a sell at the same price returns
	// the trade balance to its pre-trade value.
	trades := []models.RacerTrade{
		{RacerName: "A", Kind: models.TradeSell, Price: dec(750)},
	}
	before := Compute(nil, nil, trades).RacerTradeBalance

	trades = append(trades,
		models.RacerTrade{RacerName: "B", Kind: models.TradeBuy, Price: dec(2000)},
		models.RacerTrade{RacerName: "B", Kind: models.TradeSell, Price: dec(2000)},
	)
	after := Compute(nil, nil, trades).RacerTradeBalance

	if !after.Equal(before) {
		t.Errorf("racerTradeBalance = %s after round trip, want %s", after, before)
	}
}

func TestComputeExactDecimals(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float approximation.
	incomes := []models.InvestorIncome{
		{InvestorName: "A", Amount: decimal.RequireFromString("0.1")},
		{InvestorName: "B", Amount: decimal.RequireFromString("0.2")},
	}
	s := Compute(nil, incomes, nil)
	if s.CurrentBalance.String() != "0.3" {
		t.Errorf("currentBalance = %s, want 0.3", s.CurrentBalance)
	}
}

func TestCanAffordDebit(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		debit   int64
		want    bool
	}{
		{"sufficient", 100, 99, true},
		{"exact", 100, 100, true},
		{"insufficient", 100, 101, false},
		{"empty ledger", 0, 1, false},
		{"zero debit on empty ledger", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summary{CurrentBalance: dec(tt.balance)}
			if got := s.CanAffordDebit(dec(tt.debit)); got != tt.want {
				t.Errorf("CanAffordDebit(%d) with balance %d = %v, want %v", tt.debit, tt.balance, got, tt.want)
			}
		})
	}
}
