// Package loader reads tabular files (CSV and XLSX) into raw rows keyed by
// their header row. It does no header normalization or type coercion; that is
// the schema and parse packages' job.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/pkg/logger"
)

// ReadCSV reads a CSV stream into raw rows. The first record is the header;
// short rows are padded with empty strings, extra cells are dropped.
func ReadCSV(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, makeRow(header, record))
	}
	return rows, nil
}

// ReadXLSX reads the first sheet of an XLSX file into raw rows; the first
// sheet row is the header.
func ReadXLSX(path string) ([]domain.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheets[0], err)
	}
	defer iter.Close()

	var header []string
	var rows []domain.RawRow
	for iter.Next() {
		record, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row from %s: %w", path, err)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, makeRow(header, record))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate rows in %s: %w", path, err)
	}
	return rows, nil
}

// ReadFile dispatches on the file extension: .xlsx goes through excelize,
// everything else is treated as CSV.
func ReadFile(path string) ([]domain.RawRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// LoadFiles reads a batch of files concurrently, up to 4 at a time. Results
// keep the order of paths; the first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string) ([][]domain.RawRow, error) {
	results := make([][]domain.RawRow, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := ReadFile(path)
			if err != nil {
				return err
			}
			logger.Log.Debug().Str("file", path).Int("rows", len(rows)).Msg("loaded file")
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func makeRow(header, record []string) domain.RawRow {
	row := make(domain.RawRow, len(header))
	for i, key := range header {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if i < len(record) {
			row[key] = strings.TrimSpace(record[i])
		} else {
			row[key] = ""
		}
	}
	return row
}
