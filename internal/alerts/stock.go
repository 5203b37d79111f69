package alerts

import (
	"fmt"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/process"
)

// OutOfStock fires a critical alert for every product with zero stock.
// Condition metadata: stock_status == 'OUT_OF_STOCK'.
type OutOfStock struct{}

func (OutOfStock) ID() string { return "out-of-stock" }

func (OutOfStock) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	var list []domain.Alert
	for _, p := range data.Products {
		if p.StockStatus != domain.StockOut {
			continue
		}
		list = append(list, newAlert(
			"out-of-stock", domain.SeverityCritical,
			"Product out of stock",
			fmt.Sprintf("%s (%s) has no stock on hand; monthly sales velocity is %.1f", p.Name, p.ProductCode, p.MonthlySales),
			p.ProductCode, p.CurrentStock, 0,
		))
	}
	return list, nil
}

// LowStock fires when a product's cover falls at or below the low-stock
// threshold (days of supply).
type LowStock struct{}

func (LowStock) ID() string { return "low-stock" }

func (LowStock) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 7)
	var list []domain.Alert
	for _, p := range data.Products {
		if p.StockStatus != domain.StockLow {
			continue
		}
		list = append(list, newAlert(
			"low-stock", domain.SeverityHigh,
			"Low stock cover",
			fmt.Sprintf("%s (%s) has %.1f days of supply left; minimum level is %.0f", p.Name, p.ProductCode, p.DaysOfSupply, p.MinimumLevel),
			p.ProductCode, p.DaysOfSupply, limit,
		))
	}
	return list, nil
}

// Overstock fires when a product's cover exceeds the overstock threshold.
type Overstock struct{}

func (Overstock) ID() string { return "overstock" }

func (Overstock) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 90)
	var list []domain.Alert
	for _, p := range data.Products {
		if p.StockStatus != domain.StockOverstock {
			continue
		}
		list = append(list, newAlert(
			"overstock", domain.SeverityMedium,
			"Overstocked product",
			fmt.Sprintf("%s (%s) carries %.0f units (%.0f days of supply); carrying cost %.2f/month", p.Name, p.ProductCode, p.CurrentStock, p.DaysOfSupply, p.InventoryCarryingCost),
			p.ProductCode, p.DaysOfSupply, limit,
		))
	}
	return list, nil
}

// SlowMoving fires for stocked products whose annualized turnover falls below
// the threshold (default 1x/year). Products with no stock are out of scope.
type SlowMoving struct{}

func (SlowMoving) ID() string { return "slow-moving" }

func (SlowMoving) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 1)
	var list []domain.Alert
	for _, p := range data.Products {
		if p.CurrentStock <= 0 || p.MonthlySales <= 0 {
			continue
		}
		if p.TurnoverRate >= limit {
			continue
		}
		list = append(list, newAlert(
			"slow-moving", domain.SeverityMedium,
			"Slow-moving product",
			fmt.Sprintf("%s (%s) turns over %.2fx/year, below the %.1fx threshold", p.Name, p.ProductCode, p.TurnoverRate, limit),
			p.ProductCode, p.TurnoverRate, limit,
		))
	}
	return list, nil
}

// Discontinued fires for products holding stock with no sales at all in the
// trailing data; candidates for delisting or clearance.
type Discontinued struct{}

func (Discontinued) ID() string { return "discontinued" }

func (Discontinued) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	var list []domain.Alert
	for _, p := range data.Products {
		if p.CurrentStock <= 0 || p.MonthlySales > 0 {
			continue
		}
		if p.DaysOfSupply < process.SentinelDaysOfSupply {
			continue
		}
		list = append(list, newAlert(
			"discontinued", domain.SeverityLow,
			"No sales activity",
			fmt.Sprintf("%s (%s) holds %.0f units with no recorded sales; stock value %.2f", p.Name, p.ProductCode, p.CurrentStock, p.StockValue()),
			p.ProductCode, p.CurrentStock, 0,
		))
	}
	return list, nil
}
