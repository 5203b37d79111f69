package metrics

import (
	"math"

	"github.com/stocklens/backend-go/internal/domain"
)

// HealthScore computes the supply chain health score:
// stock health minus an overstock penalty, plus a margin bonus, clamped to [0, 100].
type HealthScore struct{}

func (HealthScore) ID() string { return "supply-chain-health" }

func (HealthScore) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	total := len(data.Products)
	if total == 0 {
		return result("supply-chain-health", "Supply Chain Health Score", cfg, 0, "score", map[string]any{
			"products": 0,
		}), nil
	}

	normal, overstock := 0, 0
	marginSum := 0.0
	for _, p := range data.Products {
		switch p.StockStatus {
		case domain.StockNormal:
			normal++
		case domain.StockOverstock:
			overstock++
		}
		marginSum += p.Margin
	}

	stockHealth := float64(normal) / float64(total) * 100
	overstockPenalty := float64(overstock) / float64(total) * 30
	avgMargin := marginSum / float64(total)

	marginBonus := 0.0
	if avgMargin > 20 {
		marginBonus = 10
	}

	score := clamp(stockHealth-overstockPenalty+marginBonus, 0, 100)

	return result("supply-chain-health", "Supply Chain Health Score", cfg, score, "score", map[string]any{
		"stock_health":      stockHealth,
		"overstock_penalty": overstockPenalty,
		"margin_bonus":      marginBonus,
		"average_margin":    avgMargin,
		"products":          total,
	}), nil
}

// TriangleScore combines the health, margin and turnover dimensions through a
// harmonic mean, so one badly underperforming dimension cannot be masked by
// strong performance elsewhere.
type TriangleScore struct{}

func (TriangleScore) ID() string { return "triangle-score" }

func (TriangleScore) Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error) {
	health, err := HealthScore{}.Calculate(data, domain.CalculationConfig{})
	if err != nil {
		return domain.MetricResult{}, err
	}

	total := len(data.Products)
	marginScore, turnoverScore := 0.0, 0.0
	if total > 0 {
		marginSum, turnoverSum := 0.0, 0.0
		for _, p := range data.Products {
			marginSum += p.Margin
			turnoverSum += p.TurnoverRate
		}
		// Margin scores full marks at 20%, turnover at 6x/year.
		marginScore = clamp(marginSum/float64(total)/20*100, 0, 100)
		turnoverScore = clamp(turnoverSum/float64(total)/6*100, 0, 100)
	}

	score := HarmonicMean([]float64{health.Value, marginScore, turnoverScore})

	return result("triangle-score", "Triangle Score", cfg, score, "score", map[string]any{
		"health_score":   health.Value,
		"margin_score":   marginScore,
		"turnover_score": turnoverScore,
	}), nil
}

// HarmonicMean returns n / sum(1/v). Any zero input yields 0.
func HarmonicMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		if v == 0 {
			return 0
		}
		sum += 1 / v
	}
	return float64(len(values)) / sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
