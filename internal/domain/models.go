// backend-go/internal/domain/models.go
package domain

import "time"

// RecordKind identifies which canonical schema a raw upload maps onto.
type RecordKind string

const (
	KindInventory RecordKind = "inventory"
	KindSales     RecordKind = "sales"
)

// RawRow is one uploaded spreadsheet line: column name -> scalar value.
// Rows are ephemeral; they only exist during parsing and validation.
type RawRow map[string]any

// DefaultUnit is the unit token applied when an inventory row carries none.
const DefaultUnit = "UND"

// InventoryRecord is the canonical inventory snapshot for one product in one period.
// Period is always the last calendar day of the month (YYYY-MM-DD); after
// deduplication exactly one record exists per (ProductCode, Period) pair.
type InventoryRecord struct {
	ProductCode   string  `json:"product_code"`
	Name          string  `json:"name"`
	Group         string  `json:"group"`
	Subgroup      string  `json:"subgroup"`
	Period        string  `json:"period"`
	PreviousStock float64 `json:"previous_stock"`
	StockIn       float64 `json:"stock_in"`
	StockOut      float64 `json:"stock_out"`
	CurrentStock  float64 `json:"current_stock"`
	AverageCost   float64 `json:"average_cost"`
	LastCost      float64 `json:"last_cost"`
	Unit          string  `json:"unit"`
}

// SalesRecord is one canonical transaction line.
type SalesRecord struct {
	SourceCode      string  `json:"source_code"`
	DocumentNumber  string  `json:"document_number"`
	MovementType    string  `json:"movement_type"`
	DocumentDate    string  `json:"document_date"`
	CustomerName    string  `json:"customer_name"`
	TaxID           string  `json:"tax_id"`
	Phone1          string  `json:"phone_1"`
	Phone2          string  `json:"phone_2"`
	SourceName      string  `json:"source_name"`
	Brand           string  `json:"brand"`
	ProductCode     string  `json:"product_code"`
	ProductDetail   string  `json:"product_detail"`
	Quantity        float64 `json:"quantity"`
	UnitValue       float64 `json:"unit_value"`
	GrossValue      float64 `json:"gross_value"`
	Tax             float64 `json:"tax"`
	DiscountAmount  float64 `json:"discount_amount"`
	DiscountPercent float64 `json:"discount_percent"`
	NetValue        float64 `json:"net_value"`
	ProductGroup    string  `json:"product_group"`
	InventorySign   string  `json:"inventory_sign"`
	Zone            string  `json:"zone"`
	ThirdPartyCode  string  `json:"third_party_code"`
	SalespersonName string  `json:"salesperson_name"`
}

// ProcessedProduct joins the latest inventory snapshot for a product with its
// trailing sales and carries the derived supply-chain fields.
type ProcessedProduct struct {
	ProductCode           string      `json:"product_code"`
	Name                  string      `json:"name"`
	Group                 string      `json:"group"`
	Subgroup              string      `json:"subgroup"`
	Period                string      `json:"period"`
	CurrentStock          float64     `json:"current_stock"`
	AverageCost           float64     `json:"average_cost"`
	Unit                  string      `json:"unit"`
	MonthlySales          float64     `json:"monthly_sales"`
	Revenue               float64     `json:"revenue"`
	Margin                float64     `json:"margin"`
	MinimumLevel          float64     `json:"minimum_level"`
	MaximumLevel          float64     `json:"maximum_level"`
	StockStatus           StockStatus `json:"stock_status"`
	TurnoverRate          float64     `json:"turnover_rate"`
	LeadTimeDays          float64     `json:"lead_time_days"`
	DaysOfSupply          float64     `json:"days_of_supply"`
	InventoryCarryingCost float64     `json:"inventory_carrying_cost"`
}

// StockValue returns the current stock valued at average cost.
func (p ProcessedProduct) StockValue() float64 {
	return p.CurrentStock * p.AverageCost
}

// ProcessedData is the full output of a processData pass: normalized records,
// derived products and the validation metadata for the source upload.
type ProcessedData struct {
	SourceID    string             `json:"source_id"`
	Inventory   []InventoryRecord  `json:"inventory"`
	Sales       []SalesRecord      `json:"sales"`
	Products    []ProcessedProduct `json:"products"`
	Validation  *ValidationResult  `json:"validation,omitempty"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// MetricResult is the output of a single calculator invocation. It is a value
// object and is never mutated after creation.
type MetricResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Value     float64        `json:"value"`
	Unit      string         `json:"unit"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Alert is one severity-ranked finding produced by an alerter. Acknowledgment
// is owned by the calling layer; the pipeline only ever creates alerts.
type Alert struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Severity       Severity  `json:"severity"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	AffectedEntity string    `json:"affected_entity"`
	CurrentValue   float64   `json:"current_value"`
	ThresholdValue float64   `json:"threshold_value"`
	Timestamp      time.Time `json:"timestamp"`
	IsAcknowledged bool      `json:"is_acknowledged"`
}

// ValidationResult reports required-column and row-level checks for an upload.
// Errors are capped upstream so the payload stays bounded; Preview always
// carries the first rows so callers can show what was uploaded even on failure.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	RowCount    int      `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Preview     []RawRow `json:"preview"`
}

// CalculationConfig selects and parameterizes one calculator run.
// Type matches a registered calculator id; ID and Name override the result identity.
type CalculationConfig struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// AlertConfig selects and parameterizes one alerter run. Condition is
// documentation for the dashboard layer; each alerter implements its own
// predicate in code. Value is the threshold compared by threshold-type alerters.
type AlertConfig struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Field     string  `json:"field,omitempty"`
	Condition string  `json:"condition,omitempty"`
	Value     float64 `json:"value,omitempty"`
}
