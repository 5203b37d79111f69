// Package engine orchestrates the pipeline: it drives validation and record
// processing over registered data sources and fans configured calculations and
// alert checks out over the component registries.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/stocklens/backend-go/internal/alerts"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/metrics"
	"github.com/stocklens/backend-go/internal/process"
	"github.com/stocklens/backend-go/internal/validate"
	"github.com/stocklens/backend-go/pkg/logger"
)

// DataSource is a named set of raw rows registered with the engine. Sources
// carry already-parsed tabular data; file handling belongs to the caller.
// ProcessorID selects a registered processor; empty means the default.
type DataSource struct {
	ID          string
	ProcessorID string
	Inventory   []domain.RawRow
	Sales       []domain.RawRow
}

// Processor turns one raw data source into processed data. The default
// processor runs validation and the canonical record transforms; custom
// processors can be registered for sources with different semantics.
type Processor interface {
	ID() string
	Process(src DataSource, now time.Time) (*domain.ProcessedData, error)
}

// DefaultProcessorID is the processor used when a source names none.
const DefaultProcessorID = "default"

// Engine composes the registries and configuration for one pipeline instance.
// Registration happens at startup; afterwards the registries are read-only, so
// concurrent calls to the processing methods are safe.
type Engine struct {
	sources     map[string]DataSource
	processors  map[string]Processor
	calculators *metrics.Registry
	alerters    *alerts.Registry
	validation  validate.Options
	product     process.ProductConfig
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithValidationOptions overrides the validation bounds.
func WithValidationOptions(opts validate.Options) Option {
	return func(e *Engine) { e.validation = opts }
}

// WithProductConfig overrides the product derivation parameters.
func WithProductConfig(cfg process.ProductConfig) Option {
	return func(e *Engine) { e.product = cfg }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine around the given registries.
func New(calculators *metrics.Registry, alerters *alerts.Registry, opts ...Option) *Engine {
	e := &Engine{
		sources:     make(map[string]DataSource),
		processors:  make(map[string]Processor),
		calculators: calculators,
		alerters:    alerters,
		validation:  validate.DefaultOptions(),
		product:     process.DefaultProductConfig(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.RegisterProcessor(defaultProcessor{engine: e})
	return e
}

// Default returns an engine with every built-in calculator and alerter.
func Default(opts ...Option) *Engine {
	return New(metrics.DefaultRegistry(), alerts.DefaultRegistry(), opts...)
}

// RegisterDataSource registers raw rows under the source id.
func (e *Engine) RegisterDataSource(src DataSource) {
	e.sources[src.ID] = src
}

// RegisterProcessor adds a source processor, replacing any previous one with
// the same id.
func (e *Engine) RegisterProcessor(p Processor) {
	e.processors[p.ID()] = p
}

// RegisterCalculator adds a calculator to the engine's registry.
func (e *Engine) RegisterCalculator(c metrics.Calculator) {
	e.calculators.Register(c)
}

// RegisterAlerter adds an alerter to the engine's registry.
func (e *Engine) RegisterAlerter(a alerts.Alerter) {
	e.alerters.Register(a)
}

// CalculatorIDs returns the registered calculator ids in registration order.
func (e *Engine) CalculatorIDs() []string { return e.calculators.IDs() }

// AlerterIDs returns the registered alerter ids in registration order.
func (e *Engine) AlerterIDs() []string { return e.alerters.IDs() }

// ProcessData runs the source's processor over the named source. Validation
// failure inside the default processor does not abort the transform; the
// result carries the validation metadata and the caller decides whether to
// block on it.
func (e *Engine) ProcessData(sourceID string) (*domain.ProcessedData, error) {
	src, ok := e.sources[sourceID]
	if !ok {
		return nil, fmt.Errorf("data source %q is not registered", sourceID)
	}

	procID := src.ProcessorID
	if procID == "" {
		procID = DefaultProcessorID
	}
	proc, ok := e.processors[procID]
	if !ok {
		return nil, fmt.Errorf("processor %q is not registered", procID)
	}

	return proc.Process(src, e.now())
}

// defaultProcessor validates the inventory rows and transforms both row sets
// into canonical records and derived products.
type defaultProcessor struct {
	engine *Engine
}

func (defaultProcessor) ID() string { return DefaultProcessorID }

func (p defaultProcessor) Process(src DataSource, now time.Time) (*domain.ProcessedData, error) {
	validation := validate.InventoryCSV(src.Inventory, p.engine.validation)
	if !validation.IsValid {
		logger.Log.Warn().
			Str("source", src.ID).
			Int("errors", len(validation.Errors)).
			Msg("inventory validation reported errors; continuing with best-effort transform")
	}

	inventory := process.Inventory(src.Inventory, now)
	sales := process.Sales(src.Sales)
	products := process.Products(inventory, sales, p.engine.product)

	return &domain.ProcessedData{
		SourceID:    src.ID,
		Inventory:   inventory,
		Sales:       sales,
		Products:    products,
		Validation:  &validation,
		ProcessedAt: now,
	}, nil
}

// CalculateMetrics runs the configured calculators sequentially. A config
// whose type has no registered calculator is skipped with a warning; an error
// or panic inside a calculator skips that single result and the rest of the
// batch proceeds.
func (e *Engine) CalculateMetrics(data *domain.ProcessedData, configs []domain.CalculationConfig) []domain.MetricResult {
	results := make([]domain.MetricResult, 0, len(configs))
	for _, cfg := range configs {
		calc, ok := e.calculators.Get(cfg.Type)
		if !ok {
			logger.Log.Warn().Str("type", cfg.Type).Str("id", cfg.ID).Msg("no calculator registered for config; skipping")
			continue
		}
		result, err := e.safeCalculate(calc, data, cfg)
		if err != nil {
			logger.Log.Warn().Err(err).Str("calculator", calc.ID()).Msg("calculator failed; skipping")
			continue
		}
		results = append(results, result)
	}
	return results
}

func (e *Engine) safeCalculate(calc metrics.Calculator, data *domain.ProcessedData, cfg domain.CalculationConfig) (result domain.MetricResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("calculator %s panicked: %v", calc.ID(), r)
		}
	}()
	return calc.Calculate(data, cfg)
}

// GenerateAlerts runs the configured alerters sequentially with the same
// partial-failure tolerance as CalculateMetrics, then sorts the aggregate by
// severity. Configs run in alerter registration order regardless of how the
// caller ordered them, so the stable severity sort breaks equal-severity ties
// by registration order.
func (e *Engine) GenerateAlerts(data *domain.ProcessedData, configs []domain.AlertConfig) []domain.Alert {
	ordered := make([]domain.AlertConfig, len(configs))
	copy(ordered, configs)
	rank := make(map[string]int, len(configs))
	for i, id := range e.alerters.IDs() {
		rank[id] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, ok := rank[ordered[i].Type]
		if !ok {
			ri = len(rank)
		}
		rj, ok := rank[ordered[j].Type]
		if !ok {
			rj = len(rank)
		}
		return ri < rj
	})

	var all []domain.Alert
	for _, cfg := range ordered {
		alerter, ok := e.alerters.Get(cfg.Type)
		if !ok {
			logger.Log.Warn().Str("type", cfg.Type).Str("id", cfg.ID).Msg("no alerter registered for config; skipping")
			continue
		}
		list, err := e.safeCheck(alerter, data, cfg)
		if err != nil {
			logger.Log.Warn().Err(err).Str("alerter", alerter.ID()).Msg("alerter failed; skipping")
			continue
		}
		all = append(all, list...)
	}
	alerts.Sort(all)
	return all
}

func (e *Engine) safeCheck(alerter alerts.Alerter, data *domain.ProcessedData, cfg domain.AlertConfig) (list []domain.Alert, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("alerter %s panicked: %v", alerter.ID(), r)
		}
	}()
	return alerter.Check(data, cfg)
}

// HealthStatus cross-checks configured component types against the registries.
type HealthStatus struct {
	Status string   `json:"status"` // healthy | warning | error
	Issues []string `json:"issues"`
}

// GetHealthStatus reports whether every configured calculation and alert can
// actually run. 0 issues is healthy, up to 2 a warning, more an error.
func (e *Engine) GetHealthStatus(calcConfigs []domain.CalculationConfig, alertConfigs []domain.AlertConfig) HealthStatus {
	issues := []string{}
	for _, cfg := range calcConfigs {
		if _, ok := e.calculators.Get(cfg.Type); !ok {
			issues = append(issues, fmt.Sprintf("calculator %q is configured but not registered", cfg.Type))
		}
	}
	for _, cfg := range alertConfigs {
		if _, ok := e.alerters.Get(cfg.Type); !ok {
			issues = append(issues, fmt.Sprintf("alerter %q is configured but not registered", cfg.Type))
		}
	}

	status := "healthy"
	switch {
	case len(issues) > 2:
		status = "error"
	case len(issues) > 0:
		status = "warning"
	}
	return HealthStatus{Status: status, Issues: issues}
}

// TimeSeriesPoint is one monthly snapshot aggregated over inventory records.
type TimeSeriesPoint struct {
	Period     string  `json:"period"`
	Products   int     `json:"products"`
	Units      float64 `json:"units"`
	StockValue float64 `json:"stock_value"`
}

// TimeSeries aggregates inventory records per period, sorted by period.
func (e *Engine) TimeSeries(records []domain.InventoryRecord) []TimeSeriesPoint {
	byPeriod := make(map[string]*TimeSeriesPoint)
	for _, rec := range records {
		pt, ok := byPeriod[rec.Period]
		if !ok {
			pt = &TimeSeriesPoint{Period: rec.Period}
			byPeriod[rec.Period] = pt
		}
		pt.Products++
		pt.Units += rec.CurrentStock
		pt.StockValue += rec.CurrentStock * rec.AverageCost
	}

	series := make([]TimeSeriesPoint, 0, len(byPeriod))
	for _, pt := range byPeriod {
		series = append(series, *pt)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })
	return series
}
