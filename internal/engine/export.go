package engine

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/pkg/logger"
)

// ExportPayload bundles one run's outputs for export.
type ExportPayload struct {
	Metrics []domain.MetricResult `json:"metrics"`
	Alerts  []domain.Alert        `json:"alerts"`
}

// ExportResults renders metrics and alerts in the requested format.
// Supported formats: "json", "csv" and "excel" (a real workbook; if the
// workbook writer fails we fall back to the CSV dump).
func (e *Engine) ExportResults(payload ExportPayload, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal export payload: %w", err)
		}
		return string(out), nil
	case "csv":
		return exportCSV(payload)
	case "excel":
		out, err := exportExcel(payload)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("workbook export failed; falling back to csv")
			return exportCSV(payload)
		}
		return out, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// exportCSV writes a flat two-section dump: a Metrics block then an Alerts
// block, each with its own header row.
func exportCSV(payload ExportPayload) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Metrics"},
		{"id", "name", "value", "unit", "timestamp"},
	}
	for _, m := range payload.Metrics {
		records = append(records, []string{
			m.ID, m.Name,
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			m.Unit,
			m.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	records = append(records,
		[]string{},
		[]string{"Alerts"},
		[]string{"id", "type", "severity", "title", "affected_entity", "current_value", "threshold_value", "message"},
	)
	for _, a := range payload.Alerts {
		records = append(records, []string{
			a.ID, a.Type, string(a.Severity), a.Title, a.AffectedEntity,
			strconv.FormatFloat(a.CurrentValue, 'f', -1, 64),
			strconv.FormatFloat(a.ThresholdValue, 'f', -1, 64),
			a.Message,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write csv export: %w", err)
	}
	return buf.String(), nil
}

// exportExcel builds a two-sheet workbook and returns the raw xlsx bytes.
func exportExcel(payload ExportPayload) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const metricsSheet = "Metrics"
	if err := f.SetSheetName("Sheet1", metricsSheet); err != nil {
		return "", err
	}
	if err := setRow(f, metricsSheet, 1, []any{"ID", "Name", "Value", "Unit", "Timestamp"}); err != nil {
		return "", err
	}
	for i, m := range payload.Metrics {
		row := []any{m.ID, m.Name, m.Value, m.Unit, m.Timestamp.Format("2006-01-02 15:04:05")}
		if err := setRow(f, metricsSheet, i+2, row); err != nil {
			return "", err
		}
	}

	const alertsSheet = "Alerts"
	if _, err := f.NewSheet(alertsSheet); err != nil {
		return "", err
	}
	if err := setRow(f, alertsSheet, 1, []any{"ID", "Type", "Severity", "Title", "Affected Entity", "Current", "Threshold", "Message"}); err != nil {
		return "", err
	}
	for i, a := range payload.Alerts {
		row := []any{a.ID, a.Type, string(a.Severity), a.Title, a.AffectedEntity, a.CurrentValue, a.ThresholdValue, a.Message}
		if err := setRow(f, alertsSheet, i+2, row); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return buf.String(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
