package metrics

import (
	"github.com/stocklens/backend-go/internal/domain"
)

// TotalRevenue sums net revenue across all processed products.
type TotalRevenue struct{}

func (TotalRevenue) ID() string { return "total-revenue" }

func (TotalRevenue) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	sum := 0.0
	for _, p := range data.Products {
		sum += p.Revenue
	}
	return result("total-revenue", "Total Revenue", cfg, sum, "currency", map[string]any{
		"products": len(data.Products),
	}), nil
}

// AverageMargin averages the margin percentage over all products.
type AverageMargin struct{}

func (AverageMargin) ID() string { return "average-margin" }

func (AverageMargin) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	if len(data.Products) == 0 {
		return result("average-margin", "Average Margin", cfg, 0, "percent", nil), nil
	}
	sum := 0.0
	for _, p := range data.Products {
		sum += p.Margin
	}
	avg := sum / float64(len(data.Products))
	return result("average-margin", "Average Margin", cfg, avg, "percent", nil), nil
}

// CarryingCost sums the monthly inventory carrying cost across products.
type CarryingCost struct{}

func (CarryingCost) ID() string { return "carrying-cost" }

func (CarryingCost) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	sum := 0.0
	for _, p := range data.Products {
		sum += p.InventoryCarryingCost
	}
	return result("carrying-cost", "Inventory Carrying Cost", cfg, sum, "currency", nil), nil
}

// CashFlowImpact estimates working-capital drag: revenue lost to out-of-stock
// products plus the carrying cost of overstocked ones.
type CashFlowImpact struct{}

func (CashFlowImpact) ID() string { return "cash-flow-impact" }

func (CashFlowImpact) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	lostRevenue, overstockCost := 0.0, 0.0
	for _, p := range data.Products {
		switch p.StockStatus {
		case domain.StockOut:
			lostRevenue += p.Revenue
		case domain.StockOverstock:
			overstockCost += p.InventoryCarryingCost
		}
	}
	return result("cash-flow-impact", "Cash Flow Impact", cfg, lostRevenue+overstockCost, "currency", map[string]any{
		"lost_revenue":            lostRevenue,
		"overstock_carrying_cost": overstockCost,
	}), nil
}
