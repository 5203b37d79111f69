package domain

import "strings"

// StockStatus classifies a product's stock position. Exactly one status holds
// for every processed product.
type StockStatus string

const (
	StockNormal    StockStatus = "NORMAL"
	StockLow       StockStatus = "LOW_STOCK"
	StockOut       StockStatus = "OUT_OF_STOCK"
	StockOverstock StockStatus = "OVERSTOCK"
)

// Severity ranks an alert. Critical sorts first.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// Rank returns the numeric weight of a severity for sorting. Unknown
// severities rank below low.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// ParseSeverity returns the severity for a given label (case-insensitive).
func ParseSeverity(label string) (Severity, bool) {
	s := Severity(strings.ToLower(label))
	_, ok := severityRanks[s]

	return s, ok
}
