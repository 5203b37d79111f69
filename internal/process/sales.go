package process

import (
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/parse"
	"github.com/stocklens/backend-go/internal/schema"
)

// Known spelling variants of the net and gross revenue columns. Exports from
// different report versions disagree on punctuation and spacing, so revenue is
// resolved through this cascade with first-present-non-zero-wins semantics.
var netValueVariants = []string{
	"V. NETA", "V.NETA", "V NETA", "VNETA", "v_neta", "VALOR NETO", "NETO", "TOTAL",
}

var grossValueVariants = []string{
	"V. BRUTA", "V.BRUTA", "V BRUTA", "VBRUTA", "v_bruta", "VALOR BRUTO", "BRUTO", "SUBTOTAL",
}

// Sales transforms raw sales rows into canonical transaction records. The
// document date is validated upstream but not reformatted here; the net value
// is the authoritative revenue figure and defaults to 0 when no variant of the
// column is present.
func Sales(rows []domain.RawRow) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(rows))

	for _, row := range rows {
		rec := domain.SalesRecord{
			SourceCode:      resolveStr(row, schema.SalSourceCode),
			DocumentNumber:  resolveStr(row, schema.SalDocumentNumber),
			MovementType:    resolveStr(row, schema.SalMovementType),
			DocumentDate:    resolveStr(row, schema.SalDocumentDate),
			CustomerName:    resolveStr(row, schema.SalCustomerName),
			TaxID:           resolveStr(row, schema.SalTaxID),
			Phone1:          resolveStr(row, schema.SalPhone1),
			Phone2:          resolveStr(row, schema.SalPhone2),
			SourceName:      resolveStr(row, schema.SalSourceName),
			Brand:           resolveStr(row, schema.SalBrand),
			ProductCode:     resolveStr(row, schema.SalProductCode),
			ProductDetail:   resolveStr(row, schema.SalProductDetail),
			Quantity:        resolveNumber(row, schema.SalQuantity, domain.KindSales),
			UnitValue:       resolveCurrency(row, schema.SalUnitValue, domain.KindSales),
			Tax:             resolveCurrency(row, schema.SalTax, domain.KindSales),
			DiscountAmount:  resolveCurrency(row, schema.SalDiscountAmount, domain.KindSales),
			DiscountPercent: resolveNumber(row, schema.SalDiscountPercent, domain.KindSales),
			GrossValue:      resolveCascade(row, grossValueVariants),
			NetValue:        resolveCascade(row, netValueVariants),
			ProductGroup:    resolveStr(row, schema.SalProductGroup),
			InventorySign:   resolveStr(row, schema.SalInventorySign),
			Zone:            resolveStr(row, schema.SalZone),
			ThirdPartyCode:  resolveStr(row, schema.SalThirdPartyCode),
			SalespersonName: resolveStr(row, schema.SalSalespersonName),
		}
		records = append(records, rec)
	}

	return records
}

func resolveStr(row domain.RawRow, canonical string) string {
	return schema.ResolveString(row, canonical, domain.KindSales)
}

// resolveCascade walks the variant list and returns the first non-zero value;
// when every present variant parses to zero it returns 0, which is also the
// default when no variant exists at all.
func resolveCascade(row domain.RawRow, variants []string) float64 {
	for _, variant := range variants {
		if v, ok := row[variant]; ok {
			if f := parse.Number(v); f != 0 {
				return f
			}
			continue
		}
		normalized := schema.Normalize(variant)
		for key, v := range row {
			if schema.Normalize(key) == normalized {
				if f := parse.Number(v); f != 0 {
					return f
				}
				break
			}
		}
	}
	return 0
}

// groupKey normalizes a product group for config lookups.
func groupKey(group string) string {
	return strings.ToUpper(strings.TrimSpace(group))
}
