package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/backend-go/internal/domain"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name         string
		stock        float64
		daysOfSupply float64
		want         domain.StockStatus
	}{
		{name: "zero stock", stock: 0, daysOfSupply: 0, want: domain.StockOut},
		{name: "zero stock beats overstock days", stock: 0, daysOfSupply: SentinelDaysOfSupply, want: domain.StockOut},
		{name: "low boundary", stock: 5, daysOfSupply: 7, want: domain.StockLow},
		{name: "just above low", stock: 5, daysOfSupply: 7.1, want: domain.StockNormal},
		{name: "normal boundary", stock: 5, daysOfSupply: 90, want: domain.StockNormal},
		{name: "just above normal", stock: 5, daysOfSupply: 90.1, want: domain.StockOverstock},
		{name: "sentinel is overstock", stock: 5, daysOfSupply: SentinelDaysOfSupply, want: domain.StockOverstock},
		{name: "negative stock is not out", stock: -3, daysOfSupply: 2, want: domain.StockLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStock(tt.stock, tt.daysOfSupply))
		})
	}
}

func TestProductsJoinAndDerive(t *testing.T) {
	inventory := []domain.InventoryRecord{
		{ProductCode: "P001", Name: "Martillo", Group: "FERRETERIA", Period: "2024-02-29", CurrentStock: 99, AverageCost: 5},
		{ProductCode: "P001", Name: "Martillo", Group: "FERRETERIA", Period: "2024-03-31", CurrentStock: 60, AverageCost: 10},
		{ProductCode: "P002", Name: "Clavos", Group: "FERRETERIA", Period: "2024-03-31", CurrentStock: 40, AverageCost: 1},
	}
	sales := []domain.SalesRecord{
		{ProductCode: "P001", DocumentDate: "2/10/2024", Quantity: 30, NetValue: 600},
		{ProductCode: "P001", DocumentDate: "3/10/2024", Quantity: 30, NetValue: 600},
	}

	products := Products(inventory, sales, DefaultProductConfig())
	require.Len(t, products, 2)

	p1 := products[0]
	assert.Equal(t, "P001", p1.ProductCode)
	assert.Equal(t, "2024-03-31", p1.Period, "latest snapshot wins")
	assert.Equal(t, 60.0, p1.CurrentStock)

	// 60 units over 2 distinct months -> 30/month, 1/day.
	assert.InDelta(t, 30.0, p1.MonthlySales, 1e-9)
	assert.InDelta(t, 60.0, p1.DaysOfSupply, 1e-9)
	assert.Equal(t, domain.StockNormal, p1.StockStatus)

	// unit price 20, cost 10 -> 50% margin
	assert.InDelta(t, 50.0, p1.Margin, 1e-9)
	assert.InDelta(t, 1200.0, p1.Revenue, 1e-9)

	// annualized turnover: 30*12/60
	assert.InDelta(t, 6.0, p1.TurnoverRate, 1e-9)

	// min level: ceil(1 * 7 * 1.5) = 11; max level: ceil(1 * 90) = 90
	assert.Equal(t, 11.0, p1.MinimumLevel)
	assert.Equal(t, 90.0, p1.MaximumLevel)

	// carrying cost: 60 * 10 * 0.25 / 12
	assert.InDelta(t, 12.5, p1.InventoryCarryingCost, 1e-9)
}

func TestProductsNoSalesGetsSentinel(t *testing.T) {
	inventory := []domain.InventoryRecord{
		{ProductCode: "P003", Period: "2024-03-31", CurrentStock: 10, AverageCost: 2},
	}
	products := Products(inventory, nil, DefaultProductConfig())
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, 0.0, p.MonthlySales)
	assert.Equal(t, float64(SentinelDaysOfSupply), p.DaysOfSupply)
	assert.Equal(t, domain.StockOverstock, p.StockStatus)
	assert.Equal(t, 0.0, p.TurnoverRate)
	assert.Equal(t, 0.0, p.MinimumLevel)
}

func TestProductsOrderFollowsFirstAppearance(t *testing.T) {
	inventory := []domain.InventoryRecord{
		{ProductCode: "B", Period: "2024-03-31", CurrentStock: 1},
		{ProductCode: "A", Period: "2024-03-31", CurrentStock: 1},
		{ProductCode: "B", Period: "2024-04-30", CurrentStock: 2},
	}
	products := Products(inventory, nil, DefaultProductConfig())
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[0].ProductCode)
	assert.Equal(t, "A", products[1].ProductCode)
}

func TestLeadTimeFor(t *testing.T) {
	cfg := DefaultProductConfig()
	cfg.LeadTimeByGroup = map[string]float64{"IMPORTADOS": 30}

	assert.Equal(t, 30.0, cfg.LeadTimeFor("importados"))
	assert.Equal(t, 30.0, cfg.LeadTimeFor(" IMPORTADOS "))
	assert.Equal(t, 7.0, cfg.LeadTimeFor("FERRETERIA"))

	var zero ProductConfig
	assert.Equal(t, 7.0, zero.LeadTimeFor("anything"), "zero config still yields the default lead time")
}
