package metrics

import (
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/process"
)

// isSentinel reports whether the product carries the placeholder days of
// supply rather than a computed one. The value is compared exactly: a product
// with tiny but non-zero velocity can legitimately hold 999+ days of cover and
// must stay in the averages.
func isSentinel(p domain.ProcessedProduct) bool {
	return p.MonthlySales == 0 && p.DaysOfSupply == process.SentinelDaysOfSupply
}

// InventoryTurnover averages the annualized turnover rate over products with a
// valid days-of-supply value. Products carrying the 999 "infinite" sentinel
// (zero sales velocity) are excluded from the average, not counted as zero.
type InventoryTurnover struct{}

func (InventoryTurnover) ID() string { return "inventory-turnover" }

func (InventoryTurnover) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	sum, n := 0.0, 0
	for _, p := range data.Products {
		if isSentinel(p) {
			continue
		}
		sum += p.TurnoverRate
		n++
	}
	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return result("inventory-turnover", "Inventory Turnover", cfg, avg, "x/year", map[string]any{
		"products_measured": n,
		"products_excluded": len(data.Products) - n,
	}), nil
}

// DaysInInventory averages days of supply with the same sentinel exclusion.
type DaysInInventory struct{}

func (DaysInInventory) ID() string { return "days-in-inventory" }

func (DaysInInventory) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	sum, n := 0.0, 0
	for _, p := range data.Products {
		if isSentinel(p) {
			continue
		}
		sum += p.DaysOfSupply
		n++
	}
	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return result("days-in-inventory", "Days in Inventory", cfg, avg, "days", map[string]any{
		"products_measured": n,
	}), nil
}

// StockStatusDistribution counts products per stock status.
type StockStatusDistribution struct{}

func (StockStatusDistribution) ID() string { return "stock-status-distribution" }

func (StockStatusDistribution) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	counts := map[domain.StockStatus]int{}
	for _, p := range data.Products {
		counts[p.StockStatus]++
	}
	normalShare := 0.0
	if len(data.Products) > 0 {
		normalShare = float64(counts[domain.StockNormal]) / float64(len(data.Products)) * 100
	}
	return result("stock-status-distribution", "Stock Status Distribution", cfg, normalShare, "percent", map[string]any{
		"normal":       counts[domain.StockNormal],
		"low_stock":    counts[domain.StockLow],
		"out_of_stock": counts[domain.StockOut],
		"overstock":    counts[domain.StockOverstock],
	}), nil
}
