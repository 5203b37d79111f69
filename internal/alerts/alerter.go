// Package alerts holds the registry of independent, pluggable alert
// generators. Each alerter is a small hand-written predicate over the
// processed record set; the "condition" strings carried in alert configs are
// documentation for the dashboard layer, not an expression language.
package alerts

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stocklens/backend-go/internal/domain"
)

// Alerter produces zero or more alerts from processed data and a threshold
// configuration.
type Alerter interface {
	ID() string
	Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error)
}

// Registry maps alerter ids to implementations. Registration order is the
// tiebreaker when sorting alerts of equal severity.
type Registry struct {
	alerters map[string]Alerter
	order    []string
}

// NewRegistry returns an empty alerter registry.
func NewRegistry() *Registry {
	return &Registry{alerters: make(map[string]Alerter)}
}

// Register adds an alerter, replacing any previous one with the same id.
func (r *Registry) Register(a Alerter) {
	if _, exists := r.alerters[a.ID()]; !exists {
		r.order = append(r.order, a.ID())
	}
	r.alerters[a.ID()] = a
}

// Get returns the alerter registered under id.
func (r *Registry) Get(id string) (Alerter, bool) {
	a, ok := r.alerters[id]
	return a, ok
}

// IDs returns registered ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// DefaultRegistry returns a registry with every built-in alerter.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(OutOfStock{})
	r.Register(LowStock{})
	r.Register(Overstock{})
	r.Register(SlowMoving{})
	r.Register(MarginCompression{})
	r.Register(Discontinued{})
	r.Register(HighValue{})
	r.Register(LeadTimeRisk{})
	r.Register(SeasonalDemand{})
	r.Register(SupplierRisk{})
	r.Register(CashFlowImpact{})
	return r
}

// Sort orders alerts critical > high > medium > low, stable for equal
// severities so generation order (registration order) is preserved.
func Sort(list []domain.Alert) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Severity.Rank() > list[j].Severity.Rank()
	})
}

// newAlert builds one alert with a fresh id and timestamp.
func newAlert(typ string, sev domain.Severity, title, message, entity string, current, threshold float64) domain.Alert {
	return domain.Alert{
		ID:             uuid.NewString(),
		Type:           typ,
		Severity:       sev,
		Title:          title,
		Message:        message,
		AffectedEntity: entity,
		CurrentValue:   current,
		ThresholdValue: threshold,
		Timestamp:      time.Now().UTC(),
	}
}

// threshold returns cfg.Value or the alerter's default when unset.
func threshold(cfg domain.AlertConfig, def float64) float64 {
	if cfg.Value != 0 {
		return cfg.Value
	}
	return def
}
