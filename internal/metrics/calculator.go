// Package metrics holds the registry of independent, pluggable metric
// calculators. Each calculator is a pure function of the processed record set
// and its configuration; failures never propagate past the engine boundary.
package metrics

import (
	"time"

	"github.com/stocklens/backend-go/internal/domain"
)

// Calculator produces one named metric result from processed data.
type Calculator interface {
	ID() string
	Calculate(data *domain.ProcessedData, cfg domain.CalculationConfig) (domain.MetricResult, error)
}

// Registry maps calculator ids to implementations. Registration order carries
// no semantic meaning for metrics; it is kept only for deterministic listings.
type Registry struct {
	calculators map[string]Calculator
	order       []string
}

// NewRegistry returns an empty calculator registry.
func NewRegistry() *Registry {
	return &Registry{calculators: make(map[string]Calculator)}
}

// Register adds a calculator, replacing any previous one with the same id.
func (r *Registry) Register(c Calculator) {
	if _, exists := r.calculators[c.ID()]; !exists {
		r.order = append(r.order, c.ID())
	}
	r.calculators[c.ID()] = c
}

// Get returns the calculator registered under id.
func (r *Registry) Get(id string) (Calculator, bool) {
	c, ok := r.calculators[id]
	return c, ok
}

// IDs returns registered ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// DefaultRegistry returns a registry with every built-in calculator.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(HealthScore{})
	r.Register(TotalRevenue{})
	r.Register(AverageMargin{})
	r.Register(InventoryTurnover{})
	r.Register(DaysInInventory{})
	r.Register(CarryingCost{})
	r.Register(StockStatusDistribution{})
	r.Register(ProductPerformance{})
	r.Register(CashFlowImpact{})
	r.Register(TriangleScore{})
	return r
}

// result builds a MetricResult honoring config overrides for id and name.
func result(id, name string, cfg domain.CalculationConfig, value float64, unit string, metadata map[string]any) domain.MetricResult {
	if cfg.ID != "" {
		id = cfg.ID
	}
	if cfg.Name != "" {
		name = cfg.Name
	}
	return domain.MetricResult{
		ID:        id,
		Name:      name,
		Value:     value,
		Unit:      unit,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}
