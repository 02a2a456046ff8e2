package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// LoadResults reads a previously written output table back into result rows.
// A missing file yields no rows, not an error; the alerts endpoint treats
// that as "no forecast has run yet".
func LoadResults(path string) ([]domain.ResultRow, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open results table %s: %w", path, err)
	}
	defer f.Close()

	return ReadResults(f)
}

// ReadResults parses the output table layout produced by WriteCSV.
func ReadResults(r io.Reader) ([]domain.ResultRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read results header: %w", err)
	}
	if len(header) < 2+3*len(modelColumns) {
		return nil, fmt.Errorf("results table has %d columns, want %d", len(header), 2+3*len(modelColumns))
	}

	var rows []domain.ResultRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("results table line %d: %w", line, err)
		}
		line++

		if len(record) < 2+3*len(modelColumns) {
			return nil, fmt.Errorf("results table line %d: truncated row", line)
		}

		cutoff, err := time.Parse(domain.DateFormat, record[1])
		if err != nil {
			return nil, fmt.Errorf("results table line %d: bad cutoff date %q", line, record[1])
		}

		row := domain.ResultRow{SKUID: record[0], CutoffDate: cutoff}
		for i, model := range []string{"seasonal", "regression", "combined"} {
			start := 2 + i*len(modelColumns)
			result, err := parseModelCells(model, cutoff, record[start:start+len(modelColumns)])
			if err != nil {
				return nil, fmt.Errorf("results table line %d: %w", line, err)
			}
			switch model {
			case "seasonal":
				row.Seasonal = result
			case "regression":
				row.Regression = result
			case "combined":
				row.Combined = result
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseModelCells is the inverse of modelCells; an all-empty group means the
// model was skipped for that row.
func parseModelCells(model string, cutoff time.Time, cells []string) (*domain.ModelResult, error) {
	empty := true
	for _, c := range cells {
		if c != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, nil
	}

	avg, err := strconv.ParseFloat(cells[0], 64)
	if err != nil {
		return nil, fmt.Errorf("%s: bad average %q", model, cells[0])
	}

	projection := domain.StockoutProjection{CutoffDate: cutoff}
	if cells[1] != "" && cells[1] != noStockoutLabel {
		stockout, err := time.Parse(domain.DateFormat, cells[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad stockout date %q", model, cells[1])
		}
		projection.StockoutDate = &stockout
	}
	if cells[2] != "" {
		days, err := strconv.Atoi(cells[2])
		if err != nil {
			return nil, fmt.Errorf("%s: bad days value %q", model, cells[2])
		}
		projection.DaysUntilStockout = &days
	}

	return &domain.ModelResult{
		Model:          model,
		AvgDailyDemand: avg,
		Projection:     projection,
		Tier:           domain.AlertTier(cells[3]),
		RestockAlert:   cells[4] == "Yes",
	}, nil
}
