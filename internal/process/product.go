package process

import (
	"math"
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/parse"
)

// SentinelDaysOfSupply is the placeholder used when sales velocity is zero.
// Averaging calculators must exclude it.
const SentinelDaysOfSupply = 999

// ProductConfig carries the derivation parameters. It is passed explicitly;
// there is no module-level mutable configuration.
type ProductConfig struct {
	LeadTimeByGroup       map[string]float64 // product group (upper) -> lead time days
	DefaultLeadTimeDays   float64
	SafetyStockMultiplier float64
	MaxCoverDays          float64 // days of cover targeted by the maximum level
	AnnualCarryingRate    float64 // fraction of stock value carried per year
}

// DefaultProductConfig returns the standard derivation parameters.
func DefaultProductConfig() ProductConfig {
	return ProductConfig{
		DefaultLeadTimeDays:   7,
		SafetyStockMultiplier: 1.5,
		MaxCoverDays:          90,
		AnnualCarryingRate:    0.25,
	}
}

// LeadTimeFor returns the configured lead time for a product group.
func (c ProductConfig) LeadTimeFor(group string) float64 {
	if lt, ok := c.LeadTimeByGroup[groupKey(group)]; ok && lt > 0 {
		return lt
	}
	if c.DefaultLeadTimeDays > 0 {
		return c.DefaultLeadTimeDays
	}
	return DefaultProductConfig().DefaultLeadTimeDays
}

// salesSummary aggregates a product's trailing sales.
type salesSummary struct {
	quantity float64
	revenue  float64
	months   map[string]struct{}
}

// Products joins the latest inventory snapshot per product with its trailing
// sales and computes the derived fields.
func Products(inventory []domain.InventoryRecord, sales []domain.SalesRecord, cfg ProductConfig) []domain.ProcessedProduct {
	latest := make(map[string]domain.InventoryRecord, len(inventory))
	order := make([]string, 0, len(inventory))
	for _, rec := range inventory {
		current, ok := latest[rec.ProductCode]
		if !ok {
			order = append(order, rec.ProductCode)
			latest[rec.ProductCode] = rec
			continue
		}
		// ISO periods compare lexicographically
		if rec.Period > current.Period {
			latest[rec.ProductCode] = rec
		}
	}

	summaries := summarizeSales(sales)

	products := make([]domain.ProcessedProduct, 0, len(order))
	for _, code := range order {
		products = append(products, deriveProduct(latest[code], summaries[code], cfg))
	}
	return products
}

func summarizeSales(sales []domain.SalesRecord) map[string]*salesSummary {
	summaries := make(map[string]*salesSummary)
	for _, s := range sales {
		code := strings.TrimSpace(s.ProductCode)
		if code == "" {
			continue
		}
		sum, ok := summaries[code]
		if !ok {
			sum = &salesSummary{months: make(map[string]struct{})}
			summaries[code] = sum
		}
		sum.quantity += s.Quantity
		sum.revenue += s.NetValue
		if iso, ok := parse.ISODate(s.DocumentDate); ok {
			sum.months[iso[:7]] = struct{}{}
		}
	}
	return summaries
}

func deriveProduct(inv domain.InventoryRecord, sum *salesSummary, cfg ProductConfig) domain.ProcessedProduct {
	p := domain.ProcessedProduct{
		ProductCode:  inv.ProductCode,
		Name:         inv.Name,
		Group:        inv.Group,
		Subgroup:     inv.Subgroup,
		Period:       inv.Period,
		CurrentStock: inv.CurrentStock,
		AverageCost:  inv.AverageCost,
		Unit:         inv.Unit,
	}

	// 1. Monthly sales velocity: quantity averaged over the distinct sale
	//    months present in the data (at least one).
	if sum != nil {
		months := float64(len(sum.months))
		if months < 1 {
			months = 1
		}
		p.MonthlySales = sum.quantity / months
		p.Revenue = sum.revenue

		// 2. Margin as a percentage of the realized unit price.
		if sum.quantity > 0 {
			unitPrice := sum.revenue / sum.quantity
			if unitPrice > 0 {
				p.Margin = (unitPrice - inv.AverageCost) / unitPrice * 100
			}
		}
	}

	dailySales := p.MonthlySales / 30

	// 3. Reorder levels from lead time and safety multiplier.
	p.LeadTimeDays = cfg.LeadTimeFor(inv.Group)
	p.MinimumLevel = math.Ceil(dailySales * p.LeadTimeDays * cfg.SafetyStockMultiplier)
	p.MaximumLevel = math.Ceil(dailySales * cfg.MaxCoverDays)
	if p.MaximumLevel < p.MinimumLevel {
		p.MaximumLevel = p.MinimumLevel
	}

	// 4. Days of supply, 999 sentinel when there is no sales velocity.
	if dailySales > 0 {
		p.DaysOfSupply = inv.CurrentStock / dailySales
	} else {
		p.DaysOfSupply = SentinelDaysOfSupply
	}

	// 5. Annualized turnover.
	if inv.CurrentStock > 0 {
		p.TurnoverRate = p.MonthlySales * 12 / inv.CurrentStock
	}

	// 6. Monthly carrying cost of the stock on hand.
	p.InventoryCarryingCost = inv.CurrentStock * inv.AverageCost * cfg.AnnualCarryingRate / 12

	p.StockStatus = ClassifyStock(inv.CurrentStock, p.DaysOfSupply)

	return p
}

// ClassifyStock is the single stock status rule; alerters and the health
// calculator both depend on this exact ordering and threshold set.
func ClassifyStock(currentStock, daysOfSupply float64) domain.StockStatus {
	switch {
	case currentStock == 0:
		return domain.StockOut
	case daysOfSupply <= 7:
		return domain.StockLow
	case daysOfSupply > 90:
		return domain.StockOverstock
	default:
		return domain.StockNormal
	}
}
