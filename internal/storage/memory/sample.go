package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/speedsyndicate/ledger/internal/models"
	"github.com/speedsyndicate/ledger/internal/storage"
)

// Sample returns the demo ledger used for local runs without a
// persistent backend: two equipment purchases, one investor
// contribution and one open buy trade.
func Sample() ([]models.EquipmentPurchase, []models.InvestorIncome, []models.RacerTrade) {
	now := time.Now().Unix()

	equipment := []models.EquipmentPurchase{
		{
			ID:        storage.NewID(),
			Racer:     "Racer 1",
			Item:      "Extrapart",
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(150),
			Date:      "2024-12-06",
			CreatedAt: now,
		},
		{
			ID:        storage.NewID(),
			Racer:     "Racer 2",
			Item:      "Harness",
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(1000),
			Date:      "2024-12-05",
			CreatedAt: now,
		},
	}

	incomes := []models.InvestorIncome{
		{
			ID:           storage.NewID(),
			InvestorName: "John Investor",
			Amount:       decimal.NewFromInt(5000),
			Description:  "Initial funding",
			Date:         "2024-12-01",
			CreatedAt:    now,
		},
	}

	trades := []models.RacerTrade{
		{
			ID:          storage.NewID(),
			RacerName:   "Speed Racer",
			Kind:        models.TradeBuy,
			Price:       decimal.NewFromInt(2000),
			Description: "Experienced racer with good track record",
			Date:        "2024-12-03",
			CreatedAt:   now,
		},
	}

	return equipment, incomes, trades
}
