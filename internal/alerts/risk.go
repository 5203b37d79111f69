package alerts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/parse"
)

// LeadTimeRisk fires when a product's replenishment lead time is at or above
// the threshold (default 14 days) while its remaining cover is shorter than
// that lead time: the stockout would land before a new order could.
type LeadTimeRisk struct{}

func (LeadTimeRisk) ID() string { return "lead-time-risk" }

func (LeadTimeRisk) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 14)
	var list []domain.Alert
	for _, p := range data.Products {
		if p.LeadTimeDays < limit {
			continue
		}
		if p.CurrentStock == 0 || p.DaysOfSupply >= p.LeadTimeDays {
			continue
		}
		list = append(list, newAlert(
			"lead-time-risk", domain.SeverityHigh,
			"Replenishment lead time risk",
			fmt.Sprintf("%s (%s) has %.1f days of supply but a %.0f-day lead time", p.Name, p.ProductCode, p.DaysOfSupply, p.LeadTimeDays),
			p.ProductCode, p.DaysOfSupply, p.LeadTimeDays,
		))
	}
	return list, nil
}

// SeasonalDemand fires when a product's latest sale month runs at or above
// 1.5x its trailing monthly average (threshold overridable as a factor).
type SeasonalDemand struct{}

func (SeasonalDemand) ID() string { return "seasonal-demand" }

func (SeasonalDemand) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	factor := threshold(cfg, 1.5)

	// month -> product -> quantity, from the raw sales records
	byProduct := make(map[string]map[string]float64)
	for _, s := range data.Sales {
		iso, ok := parse.ISODate(s.DocumentDate)
		if !ok || s.ProductCode == "" {
			continue
		}
		month := iso[:7]
		if byProduct[s.ProductCode] == nil {
			byProduct[s.ProductCode] = make(map[string]float64)
		}
		byProduct[s.ProductCode][month] += s.Quantity
	}

	names := make(map[string]string, len(data.Products))
	for _, p := range data.Products {
		names[p.ProductCode] = p.Name
	}

	codes := make([]string, 0, len(byProduct))
	for code := range byProduct {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var list []domain.Alert
	for _, code := range codes {
		months := byProduct[code]
		if len(months) < 2 {
			continue
		}
		keys := make([]string, 0, len(months))
		for m := range months {
			keys = append(keys, m)
		}
		sort.Strings(keys)

		latest := keys[len(keys)-1]
		trailingSum := 0.0
		for _, m := range keys[:len(keys)-1] {
			trailingSum += months[m]
		}
		trailingAvg := trailingSum / float64(len(keys)-1)
		if trailingAvg <= 0 || months[latest] < trailingAvg*factor {
			continue
		}

		name := names[code]
		if name == "" {
			name = code
		}
		list = append(list, newAlert(
			"seasonal-demand", domain.SeverityMedium,
			"Seasonal demand spike",
			fmt.Sprintf("%s (%s) sold %.0f units in %s vs a %.1f trailing monthly average", name, code, months[latest], latest, trailingAvg),
			code, months[latest], trailingAvg*factor,
		))
	}
	return list, nil
}

// SupplierRisk fires per product group when the share of products in trouble
// (out of stock or low) is at or above the threshold fraction (default 0.5):
// a concentrated gap usually points at one supplier.
type SupplierRisk struct{}

func (SupplierRisk) ID() string { return "supplier-risk" }

func (SupplierRisk) Check(data *domain.ProcessedData, cfg domain.AlertConfig) ([]domain.Alert, error) {
	limit := threshold(cfg, 0.5)

	type tally struct{ total, troubled int }
	groups := make(map[string]*tally)
	for _, p := range data.Products {
		g := strings.ToUpper(strings.TrimSpace(p.Group))
		if g == "" {
			g = "SIN GRUPO"
		}
		t, ok := groups[g]
		if !ok {
			t = &tally{}
			groups[g] = t
		}
		t.total++
		if p.StockStatus == domain.StockOut || p.StockStatus == domain.StockLow {
			t.troubled++
		}
	}

	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	var list []domain.Alert
	for _, g := range names {
		t := groups[g]
		if t.total < 2 {
			continue
		}
		share := float64(t.troubled) / float64(t.total)
		if share < limit {
			continue
		}
		list = append(list, newAlert(
			"supplier-risk", domain.SeverityHigh,
			"Supplier risk in product group",
			fmt.Sprintf("%d of %d products in group %s are out of stock or low", t.troubled, t.total, g),
			g, share, limit,
		))
	}
	return list, nil
}
