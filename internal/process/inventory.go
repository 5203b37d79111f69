// Package process transforms validated raw rows into canonical records and
// derives per-product supply-chain fields from the joined record set.
package process

import (
	"time"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/parse"
	"github.com/stocklens/backend-go/internal/schema"
	"github.com/stocklens/backend-go/pkg/logger"
)

// Inventory transforms raw inventory rows into canonical records.
//
// The period is always forced to the last day of its month; rows that share a
// (productCode, period) key after that normalization are deduplicated with a
// first-seen-wins policy, and output order equals first-seen order of unique
// keys. Negative quantities pass through untouched.
func Inventory(rows []domain.RawRow, now time.Time) []domain.InventoryRecord {
	records := make([]domain.InventoryRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	skipped := 0
	for _, row := range rows {
		code := schema.ResolveString(row, schema.InvProductCode, domain.KindInventory)
		if code == "" {
			skipped++
			continue
		}

		rawPeriod, _ := schema.ResolveCell(row, schema.InvPeriod, domain.KindInventory)
		period := parse.MonthEnd(rawPeriod, now)

		key := code + "__" + period
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rec := domain.InventoryRecord{
			ProductCode:   code,
			Name:          schema.ResolveString(row, schema.InvName, domain.KindInventory),
			Group:         schema.ResolveString(row, schema.InvGroup, domain.KindInventory),
			Subgroup:      schema.ResolveString(row, schema.InvSubgroup, domain.KindInventory),
			Period:        period,
			PreviousStock: resolveNumber(row, schema.InvPreviousStock, domain.KindInventory),
			StockIn:       resolveNumber(row, schema.InvStockIn, domain.KindInventory),
			StockOut:      resolveNumber(row, schema.InvStockOut, domain.KindInventory),
			CurrentStock:  resolveNumber(row, schema.InvCurrentStock, domain.KindInventory),
			AverageCost:   resolveCurrency(row, schema.InvAverageCost, domain.KindInventory),
			LastCost:      resolveCurrency(row, schema.InvLastCost, domain.KindInventory),
			Unit:          schema.ResolveString(row, schema.InvUnit, domain.KindInventory),
		}
		if rec.Unit == "" {
			rec.Unit = domain.DefaultUnit
		}

		records = append(records, rec)
	}

	if skipped > 0 {
		logger.Log.Warn().Int("rows", skipped).Msg("skipped inventory rows without a product code")
	}

	return records
}

func resolveNumber(row domain.RawRow, canonical string, kind domain.RecordKind) float64 {
	v, ok := schema.ResolveCell(row, canonical, kind)
	if !ok {
		return 0
	}
	return parse.Number(v)
}

// resolveCurrency keeps cost fields exact through decimal before the canonical
// float64 is produced.
func resolveCurrency(row domain.RawRow, canonical string, kind domain.RecordKind) float64 {
	v, ok := schema.ResolveCell(row, canonical, kind)
	if !ok {
		return 0
	}
	return parse.Decimal(v).InexactFloat64()
}
