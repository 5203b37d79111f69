package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/process"
)

func testData(products ...domain.ProcessedProduct) *domain.ProcessedData {
	return &domain.ProcessedData{SourceID: "test", Products: products}
}

func TestHealthScore(t *testing.T) {
	// 2 normal, 1 overstock, 1 out of stock; margins average above 20.
	data := testData(
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Margin: 30},
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Margin: 30},
		domain.ProcessedProduct{StockStatus: domain.StockOverstock, Margin: 30},
		domain.ProcessedProduct{StockStatus: domain.StockOut, Margin: 30},
	)

	result, err := HealthScore{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)

	// 2/4*100 - 1/4*30 + 10 = 50 - 7.5 + 10
	assert.InDelta(t, 52.5, result.Value, 1e-9)
	assert.Equal(t, "supply-chain-health", result.ID)
}

func TestHealthScoreClamped(t *testing.T) {
	low := testData(
		domain.ProcessedProduct{StockStatus: domain.StockOverstock, Margin: -50},
	)
	result, err := HealthScore{}.Calculate(low, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value, "score never goes below 0")

	high := testData(
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Margin: 50},
	)
	result, err = HealthScore{}.Calculate(high, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Value, "score never exceeds 100")
}

func TestHealthScoreEmpty(t *testing.T) {
	result, err := HealthScore{}.Calculate(testData(), domain.CalculationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value)
}

func TestConfigOverridesIdentity(t *testing.T) {
	cfg := domain.CalculationConfig{ID: "custom-id", Name: "Custom Name"}
	result, err := HealthScore{}.Calculate(testData(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "custom-id", result.ID)
	assert.Equal(t, "Custom Name", result.Name)
}

func TestSentinelExcludedFromAverages(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{DaysOfSupply: 30, TurnoverRate: 4},
		domain.ProcessedProduct{DaysOfSupply: 60, TurnoverRate: 2},
		domain.ProcessedProduct{DaysOfSupply: process.SentinelDaysOfSupply, TurnoverRate: 0},
	)

	turnover, err := InventoryTurnover{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, turnover.Value, 1e-9)
	assert.Equal(t, 2, turnover.Metadata["products_measured"])
	assert.Equal(t, 1, turnover.Metadata["products_excluded"])

	days, err := DaysInInventory{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, days.Value, 1e-9)
}

func TestSlowMoversStayInAverages(t *testing.T) {
	// Genuine cover at or beyond 999 days (tiny but non-zero velocity) is a
	// computed value, not the sentinel, and must not be dropped.
	data := testData(
		domain.ProcessedProduct{MonthlySales: 0.5, DaysOfSupply: 2000, TurnoverRate: 0.1},
		domain.ProcessedProduct{MonthlySales: 10, DaysOfSupply: 100, TurnoverRate: 1.9},
		domain.ProcessedProduct{MonthlySales: 0, DaysOfSupply: process.SentinelDaysOfSupply, TurnoverRate: 0},
	)

	turnover, err := InventoryTurnover{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, turnover.Value, 1e-9)
	assert.Equal(t, 2, turnover.Metadata["products_measured"])
	assert.Equal(t, 1, turnover.Metadata["products_excluded"])

	days, err := DaysInInventory{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 1050.0, days.Value, 1e-9)
}

func TestSentinelOnlyDataAveragesToZero(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{DaysOfSupply: process.SentinelDaysOfSupply},
	)
	days, err := DaysInInventory{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, days.Value)
}

func TestTotalRevenueAndCarryingCost(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{Revenue: 100, InventoryCarryingCost: 5},
		domain.ProcessedProduct{Revenue: 250, InventoryCarryingCost: 2.5},
	)

	revenue, err := TotalRevenue{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 350.0, revenue.Value, 1e-9)

	carrying, err := CarryingCost{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, carrying.Value, 1e-9)
}

func TestCashFlowImpactCalculator(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{StockStatus: domain.StockOut, Revenue: 1000, InventoryCarryingCost: 99},
		domain.ProcessedProduct{StockStatus: domain.StockOverstock, Revenue: 500, InventoryCarryingCost: 40},
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Revenue: 9999, InventoryCarryingCost: 9999},
	)
	result, err := CashFlowImpact{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 1040.0, result.Value, 1e-9)
	assert.InDelta(t, 1000.0, result.Metadata["lost_revenue"].(float64), 1e-9)
	assert.InDelta(t, 40.0, result.Metadata["overstock_carrying_cost"].(float64), 1e-9)
}

func TestStockStatusDistribution(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{StockStatus: domain.StockNormal},
		domain.ProcessedProduct{StockStatus: domain.StockNormal},
		domain.ProcessedProduct{StockStatus: domain.StockLow},
		domain.ProcessedProduct{StockStatus: domain.StockOut},
	)
	result, err := StockStatusDistribution{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, result.Value, 1e-9)
	assert.Equal(t, 2, result.Metadata["normal"])
	assert.Equal(t, 1, result.Metadata["low_stock"])
	assert.Equal(t, 1, result.Metadata["out_of_stock"])
	assert.Equal(t, 0, result.Metadata["overstock"])
}

func TestScore(t *testing.T) {
	perfect := domain.ProcessedProduct{
		TurnoverRate: 6,
		Margin:       20,
		Revenue:      10000,
		StockStatus:  domain.StockNormal,
	}
	assert.Equal(t, 100.0, Score(perfect))

	// contributions cap at their weight even when inputs overshoot
	overshoot := perfect
	overshoot.TurnoverRate = 60
	overshoot.Margin = 200
	overshoot.Revenue = 1e6
	assert.Equal(t, 100.0, Score(overshoot))

	zero := domain.ProcessedProduct{StockStatus: domain.StockOut}
	assert.Equal(t, 0.0, Score(zero))
}

func TestProductPerformanceTopProducts(t *testing.T) {
	data := testData(
		domain.ProcessedProduct{ProductCode: "A", TurnoverRate: 6, Margin: 20, Revenue: 10000, StockStatus: domain.StockNormal},
		domain.ProcessedProduct{ProductCode: "B"},
	)
	result, err := ProductPerformance{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, result.Value, 1e-9)

	top, ok := result.Metadata["top_products"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0]["product_code"])
}

func TestHarmonicMean(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{name: "equal values", in: []float64{4, 4, 4}, want: 4},
		{name: "classic", in: []float64{1, 2, 4}, want: 12.0 / 7.0},
		{name: "any zero yields zero", in: []float64{10, 0, 30}, want: 0},
		{name: "empty", in: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HarmonicMean(tt.in), 1e-9)
		})
	}
}

func TestTriangleScore(t *testing.T) {
	// one dimension at zero drags the harmonic mean to zero
	data := testData(
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Margin: 20, TurnoverRate: 0},
	)
	result, err := TriangleScore{}.Calculate(data, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Value)

	balanced := testData(
		domain.ProcessedProduct{StockStatus: domain.StockNormal, Margin: 20, TurnoverRate: 6},
	)
	result, err = TriangleScore{}.Calculate(balanced, domain.CalculationConfig{})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.Value, 1e-9)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	for _, id := range []string{
		"supply-chain-health", "total-revenue", "average-margin",
		"inventory-turnover", "days-in-inventory", "carrying-cost",
		"stock-status-distribution", "product-performance",
		"cash-flow-impact", "triangle-score",
	} {
		_, ok := r.Get(id)
		assert.True(t, ok, "missing calculator %s", id)
	}
	assert.Len(t, r.IDs(), 10)
}
