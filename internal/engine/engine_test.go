package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/backend-go/internal/domain"
)

// failingCalculator always errors; panickyCalculator always panics. Both are
// used to verify that one broken component never takes down a batch.
type failingCalculator struct{}

func (failingCalculator) ID() string { return "failing" }
func (failingCalculator) Calculate(*domain.ProcessedData, domain.CalculationConfig) (domain.MetricResult, error) {
	return domain.MetricResult{}, errors.New("boom")
}

type panickyCalculator struct{}

func (panickyCalculator) ID() string { return "panicky" }
func (panickyCalculator) Calculate(*domain.ProcessedData, domain.CalculationConfig) (domain.MetricResult, error) {
	panic("unexpected")
}

type panickyAlerter struct{}

func (panickyAlerter) ID() string { return "panicky-alerter" }
func (panickyAlerter) Check(*domain.ProcessedData, domain.AlertConfig) ([]domain.Alert, error) {
	panic("unexpected")
}

func inventoryRows() []domain.RawRow {
	return []domain.RawRow{
		{
			"c_articulo":       "P001",
			"c_descripcion":    "Martillo",
			"c_grupo":          "FERRETERIA",
			"f_periodo":        "2024-03-15",
			"n_saldo_actual":   "60",
			"n_costo_promedio": "10",
		},
		{
			"c_articulo":       "P002",
			"c_descripcion":    "Clavos",
			"c_grupo":          "FERRETERIA",
			"f_periodo":        "2024-03-15",
			"n_saldo_actual":   "0",
			"n_costo_promedio": "1",
		},
	}
}

func salesRows() []domain.RawRow {
	return []domain.RawRow{
		{"CODIGO": "P001", "DETALLE": "Martillo", "FECHA": "3/10/2024", "CANTIDAD": "30", "V. NETA": "600"},
	}
}

func newTestEngine() *Engine {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	return Default(WithClock(func() time.Time { return now }))
}

func TestProcessDataUnknownSource(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.ProcessData("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestProcessData(t *testing.T) {
	eng := newTestEngine()
	eng.RegisterDataSource(DataSource{ID: "src", Inventory: inventoryRows(), Sales: salesRows()})

	data, err := eng.ProcessData("src")
	require.NoError(t, err)

	assert.Equal(t, "src", data.SourceID)
	require.Len(t, data.Inventory, 2)
	assert.Equal(t, "2024-03-31", data.Inventory[0].Period)
	require.Len(t, data.Sales, 1)
	require.Len(t, data.Products, 2)

	require.NotNil(t, data.Validation)
	assert.True(t, data.Validation.IsValid)

	assert.Equal(t, domain.StockOut, data.Products[1].StockStatus)
}

type staticProcessor struct{}

func (staticProcessor) ID() string { return "static" }
func (staticProcessor) Process(src DataSource, now time.Time) (*domain.ProcessedData, error) {
	return &domain.ProcessedData{SourceID: src.ID, ProcessedAt: now}, nil
}

func TestProcessDataCustomProcessor(t *testing.T) {
	eng := newTestEngine()
	eng.RegisterProcessor(staticProcessor{})
	eng.RegisterDataSource(DataSource{ID: "src", ProcessorID: "static", Inventory: inventoryRows()})

	data, err := eng.ProcessData("src")
	require.NoError(t, err)
	assert.Empty(t, data.Inventory, "the custom processor replaced the default transform")

	eng.RegisterDataSource(DataSource{ID: "bad", ProcessorID: "missing"})
	_, err = eng.ProcessData("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCalculateMetricsPartialFailure(t *testing.T) {
	eng := newTestEngine()
	eng.RegisterCalculator(failingCalculator{})
	eng.RegisterCalculator(panickyCalculator{})

	data := &domain.ProcessedData{Products: []domain.ProcessedProduct{{StockStatus: domain.StockNormal}}}
	configs := []domain.CalculationConfig{
		{Type: "supply-chain-health"},
		{Type: "failing"},
		{Type: "panicky"},
		{Type: "does-not-exist"},
		{Type: "total-revenue"},
	}

	results := eng.CalculateMetrics(data, configs)
	require.Len(t, results, 2, "failing, panicking and unknown configs are skipped")
	assert.Equal(t, "supply-chain-health", results[0].ID)
	assert.Equal(t, "total-revenue", results[1].ID)
}

func TestGenerateAlertsSortedAndTolerant(t *testing.T) {
	eng := newTestEngine()
	eng.RegisterAlerter(panickyAlerter{})

	data := &domain.ProcessedData{Products: []domain.ProcessedProduct{
		{ProductCode: "OVER", StockStatus: domain.StockOverstock, DaysOfSupply: 200},
		{ProductCode: "OUT", StockStatus: domain.StockOut},
	}}
	configs := []domain.AlertConfig{
		{Type: "overstock"},
		{Type: "panicky-alerter"},
		{Type: "out-of-stock"},
		{Type: "missing"},
	}

	list := eng.GenerateAlerts(data, configs)
	require.Len(t, list, 2)
	// critical sorts ahead of medium even though overstock ran first
	assert.Equal(t, "out-of-stock", list[0].Type)
	assert.Equal(t, "overstock", list[1].Type)
}

func TestGenerateAlertsTiesFollowRegistrationOrder(t *testing.T) {
	eng := newTestEngine()

	// One product firing two medium-severity alerters: overstock registers
	// before slow-moving, so it must sort first even when the caller lists
	// the configs in the opposite order.
	data := &domain.ProcessedData{Products: []domain.ProcessedProduct{
		{ProductCode: "P001", CurrentStock: 100, MonthlySales: 1, TurnoverRate: 0.12, DaysOfSupply: 3000, StockStatus: domain.StockOverstock},
	}}
	configs := []domain.AlertConfig{
		{Type: "slow-moving"},
		{Type: "overstock"},
	}

	list := eng.GenerateAlerts(data, configs)
	require.Len(t, list, 2)
	assert.Equal(t, domain.SeverityMedium, list[0].Severity)
	assert.Equal(t, "overstock", list[0].Type)
	assert.Equal(t, "slow-moving", list[1].Type)
}

func TestGetHealthStatus(t *testing.T) {
	eng := newTestEngine()

	healthy := eng.GetHealthStatus(
		[]domain.CalculationConfig{{Type: "supply-chain-health"}},
		[]domain.AlertConfig{{Type: "out-of-stock"}},
	)
	assert.Equal(t, "healthy", healthy.Status)
	assert.Empty(t, healthy.Issues)

	warning := eng.GetHealthStatus(
		[]domain.CalculationConfig{{Type: "ghost-1"}, {Type: "ghost-2"}},
		nil,
	)
	assert.Equal(t, "warning", warning.Status)
	assert.Len(t, warning.Issues, 2)

	errored := eng.GetHealthStatus(
		[]domain.CalculationConfig{{Type: "ghost-1"}, {Type: "ghost-2"}},
		[]domain.AlertConfig{{Type: "ghost-3"}},
	)
	assert.Equal(t, "error", errored.Status)
	assert.Len(t, errored.Issues, 3)
}

func TestTimeSeries(t *testing.T) {
	eng := newTestEngine()
	records := []domain.InventoryRecord{
		{ProductCode: "P001", Period: "2024-04-30", CurrentStock: 10, AverageCost: 2},
		{ProductCode: "P001", Period: "2024-03-31", CurrentStock: 20, AverageCost: 2},
		{ProductCode: "P002", Period: "2024-03-31", CurrentStock: 5, AverageCost: 4},
	}

	series := eng.TimeSeries(records)
	require.Len(t, series, 2)

	assert.Equal(t, "2024-03-31", series[0].Period)
	assert.Equal(t, 2, series[0].Products)
	assert.Equal(t, 25.0, series[0].Units)
	assert.Equal(t, 60.0, series[0].StockValue)

	assert.Equal(t, "2024-04-30", series[1].Period)
	assert.Equal(t, 20.0, series[1].StockValue)
}
