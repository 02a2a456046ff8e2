package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/holoo/stockcast/internal/domain"
)

// noStockoutLabel is what the output table shows when cumulative demand
// never exceeds inventory within the horizon.
const noStockoutLabel = "No stockout projected"

var modelColumns = []string{
	"avg_daily_sales",
	"stockout_date",
	"days_until_stockout",
	"alert",
	"restock_alert",
}

// WriteCSV renders result rows as the flat output table consumed by the
// alerting layer. Every model group is always present; cells of a skipped
// model stay empty.
func WriteCSV(w io.Writer, rows []domain.ResultRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"sku_id", "cutoff_date"}
	for _, prefix := range []string{"seasonal", "regression", "combined"} {
		for _, col := range modelColumns {
			header = append(header, prefix+"_"+col)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{row.SKUID, row.CutoffDate.Format(domain.DateFormat)}
		for _, result := range []*domain.ModelResult{row.Seasonal, row.Regression, row.Combined} {
			record = append(record, modelCells(result)...)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the output table to a file, creating parent directories.
func SaveCSV(path string, rows []domain.ResultRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, rows)
}

func modelCells(result *domain.ModelResult) []string {
	if result == nil {
		return make([]string, len(modelColumns))
	}

	stockout := noStockoutLabel
	days := ""
	if result.Projection.StockoutDate != nil {
		stockout = result.Projection.StockoutDate.Format(domain.DateFormat)
	}
	if result.Projection.DaysUntilStockout != nil {
		days = strconv.Itoa(*result.Projection.DaysUntilStockout)
	}

	restock := "No"
	if result.RestockAlert {
		restock = "Yes"
	}

	return []string{
		strconv.FormatFloat(result.AvgDailyDemand, 'f', 2, 64),
		stockout,
		days,
		string(result.Tier),
		restock,
	}
}
