// Package validate checks uploaded row sets against the canonical schemas and
// produces bounded error/warning reports with a data preview.
package validate

import (
	"fmt"
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/parse"
	"github.com/stocklens/backend-go/internal/schema"
)

// Options bound the work and payload size of a validation pass.
type Options struct {
	SampleSize  int // rows receiving cell-level checks
	MaxErrors   int // cap on collected error messages
	PreviewSize int // raw rows echoed back to the caller
}

// DefaultOptions mirrors the ingestion defaults: check the first 100 rows,
// cap errors at 50, preview 5 rows.
func DefaultOptions() Options {
	return Options{SampleSize: 100, MaxErrors: 50, PreviewSize: 5}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SampleSize <= 0 {
		o.SampleSize = d.SampleSize
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = d.MaxErrors
	}
	if o.PreviewSize <= 0 {
		o.PreviewSize = d.PreviewSize
	}
	return o
}

var requiredInventoryColumns = []string{
	schema.InvProductCode,
	schema.InvName,
	schema.InvGroup,
	schema.InvCurrentStock,
	schema.InvAverageCost,
	schema.InvPeriod,
}

var requiredSalesColumns = []string{
	schema.SalProductCode,
	schema.SalProductDetail,
	schema.SalDocumentDate,
	schema.SalQuantity,
	schema.SalNetValue,
}

// numeric columns checked per sampled row, beyond the required set.
var inventoryNumericColumns = []string{
	schema.InvCurrentStock,
	schema.InvAverageCost,
	schema.InvPreviousStock,
	schema.InvStockIn,
	schema.InvStockOut,
}

var salesNumericColumns = []string{
	schema.SalQuantity,
	schema.SalNetValue,
	schema.SalUnitValue,
	schema.SalGrossValue,
}

// InventoryCSV validates raw inventory rows.
func InventoryCSV(rows []domain.RawRow, opts Options) domain.ValidationResult {
	return run(rows, domain.KindInventory, opts)
}

// SalesCSV validates raw sales rows.
func SalesCSV(rows []domain.RawRow, opts Options) domain.ValidationResult {
	return run(rows, domain.KindSales, opts)
}

type collector struct {
	errors   []string
	warnings []string
	max      int
	dropped  int
}

func (c *collector) errorf(format string, args ...any) {
	if len(c.errors) >= c.max {
		c.dropped++
		return
	}
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *collector) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func run(rows []domain.RawRow, kind domain.RecordKind, opts Options) domain.ValidationResult {
	opts = opts.withDefaults()

	result := domain.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
		Preview:  []domain.RawRow{},
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "the file is empty or could not be parsed into rows")
		return result
	}
	if len(rows[0]) == 0 {
		result.Errors = append(result.Errors, "the first row is not a valid column/value mapping")
		result.RowCount = len(rows)
		return result
	}

	result.RowCount = len(rows)
	result.ColumnCount = len(rows[0])
	for i := 0; i < len(rows) && i < opts.PreviewSize; i++ {
		result.Preview = append(result.Preview, rows[i])
	}

	c := &collector{max: opts.MaxErrors}

	checkRequiredColumns(rows[0], kind, c)

	sample := len(rows)
	if sample > opts.SampleSize {
		sample = opts.SampleSize
	}
	for i := 0; i < sample; i++ {
		checkRow(rows[i], i, kind, c)
	}

	if c.dropped > 0 || (len(c.errors) == opts.MaxErrors && len(rows) > sample) {
		c.errors = append(c.errors, fmt.Sprintf(
			"error list truncated at %d entries; additional errors may exist in the remaining data", opts.MaxErrors))
	}

	result.Errors = c.errors
	result.Warnings = c.warnings
	result.IsValid = len(result.Errors) == 0
	return result
}

func checkRequiredColumns(first domain.RawRow, kind domain.RecordKind, c *collector) {
	required := requiredInventoryColumns
	if kind == domain.KindSales {
		required = requiredSalesColumns
	}

	var missing []string
	for _, col := range required {
		if !schema.HasColumn(first, col, kind) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		c.errorf("Missing required columns: %s", strings.Join(missing, ", "))
	}
}

func checkRow(row domain.RawRow, idx int, kind domain.RecordKind, c *collector) {
	numeric := inventoryNumericColumns
	if kind == domain.KindSales {
		numeric = salesNumericColumns
	}

	for _, col := range numeric {
		v, ok := schema.ResolveCell(row, col, kind)
		if !ok || v == nil {
			continue
		}
		s, isStr := v.(string)
		if isStr && strings.TrimSpace(s) == "" {
			continue
		}
		// A cell is only invalid when no numeric interpretation exists after
		// locale parsing; currency symbols alone are fine.
		if _, ok := parse.TryNumber(v); !ok {
			c.errorf("Row %d: column %s has non-numeric value %q", idx+1, col, fmt.Sprintf("%v", v))
		}
	}

	checkDate(row, idx, kind, c)
}

func checkDate(row domain.RawRow, idx int, kind domain.RecordKind, c *collector) {
	if kind == domain.KindSales {
		v, ok := schema.ResolveCell(row, schema.SalDocumentDate, kind)
		if !ok || v == nil {
			return
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" && !parse.IsDisplayDate(s) {
			c.warnf("Row %d: %s value %q does not match the expected M/D/YYYY format", idx+1, schema.SalDocumentDate, s)
		}
		return
	}

	v, ok := schema.ResolveCell(row, schema.InvPeriod, kind)
	if !ok || v == nil {
		return
	}
	if _, ok := parse.ISODate(v); !ok {
		c.warnf("Row %d: %s value %q is not a recognizable date; the current month will be used", idx+1, schema.InvPeriod, fmt.Sprintf("%v", v))
	}
}
