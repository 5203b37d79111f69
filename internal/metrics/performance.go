package metrics

import (
	"math"
	"sort"

	"github.com/stocklens/backend-go/internal/domain"
)

// ProductPerformance scores each product on a 100-point scale and reports the
// average, with the top performers in the metadata.
//
// Weighting: turnover up to 30 points (full marks at 6x/year), margin up to 30
// (full at 20%), revenue up to 20 (full at 10,000), plus a flat 20 for a
// NORMAL stock status.
type ProductPerformance struct{}

func (ProductPerformance) ID() string { return "product-performance" }

func (ProductPerformance) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	if len(data.Products) == 0 {
		return result("product-performance", "Product Performance", cfg, 0, "score", nil), nil
	}

	type scored struct {
		code  string
		name  string
		score float64
	}

	all := make([]scored, 0, len(data.Products))
	sum := 0.0
	for _, p := range data.Products {
		s := Score(p)
		sum += s
		all = append(all, scored{code: p.ProductCode, name: p.Name, score: s})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	topN := 5
	if len(all) < topN {
		topN = len(all)
	}
	top := make([]map[string]any, 0, topN)
	for _, s := range all[:topN] {
		top = append(top, map[string]any{"product_code": s.code, "name": s.name, "score": s.score})
	}

	avg := sum / float64(len(data.Products))
	return result("product-performance", "Product Performance", cfg, avg, "score", map[string]any{
		"top_products": top,
	}), nil
}

// Score computes the weighted performance score for one product.
func Score(p domain.ProcessedProduct) float64 {
	score := math.Min(p.TurnoverRate/6, 1) * 30
	score += math.Min(p.Margin/20, 1) * 30
	score += math.Min(p.Revenue/10000, 1) * 20
	if p.StockStatus == domain.StockNormal {
		score += 20
	}
	return clamp(score, 0, 100)
}
