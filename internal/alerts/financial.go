package alerts

import (
	"fmt"

	"github.com/stocklens/backend-go/internal/domain"
)

// MarginCompression fires for selling products whose margin falls below the
// threshold percentage (default 10%).
type MarginCompression struct{}

func (MarginCompression) ID() string { return "margin-compression" }

func (MarginCompression) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 10)
	var list []domain.Alert
	for _, p := range data.Products {
		if p.Revenue <= 0 {
			continue
		}
		if p.Margin >= limit {
			continue
		}
		list = append(list, newAlert(
			"margin-compression", domain.SeverityHigh,
			"Margin below target",
			fmt.Sprintf("%s (%s) sells at a %.1f%% margin, below the %.1f%% target", p.Name, p.ProductCode, p.Margin, limit),
			p.ProductCode, p.Margin, limit,
		))
	}
	return list, nil
}

// HighValue flags products whose stock value exceeds the threshold
// (default 10,000) so capital concentration is visible.
type HighValue struct{}

func (HighValue) ID() string { return "high-value" }

func (HighValue) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 10000)
	var list []domain.Alert
	for _, p := range data.Products {
		value := p.StockValue()
		if value <= limit {
			continue
		}
		list = append(list, newAlert(
			"high-value", domain.SeverityMedium,
			"High-value stock position",
			fmt.Sprintf("%s (%s) ties up %.2f in stock (%.0f units at %.2f)", p.Name, p.ProductCode, value, p.CurrentStock, p.AverageCost),
			p.ProductCode, value, limit,
		))
	}
	return list, nil
}

// CashFlowImpact fires when a single product's working-capital drag (lost
// out-of-stock revenue or overstock carrying cost) exceeds the threshold.
type CashFlowImpact struct{}

func (CashFlowImpact) ID() string { return "cash-flow-impact" }

func (CashFlowImpact) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 5000)
	var list []domain.Alert
	for _, p := range data.Products {
		impact := 0.0
		switch p.StockStatus {
		case domain.StockOut:
			impact = p.Revenue
		case domain.StockOverstock:
			impact = p.InventoryCarryingCost
		default:
			continue
		}
		if impact <= limit {
			continue
		}
		list = append(list, newAlert(
			"cash-flow-impact", domain.SeverityHigh,
			"Cash flow impact",
			fmt.Sprintf("%s (%s) impacts cash flow by %.2f (%s)", p.Name, p.ProductCode, impact, p.StockStatus),
			p.ProductCode, impact, limit,
		))
	}
	return list, nil
}
