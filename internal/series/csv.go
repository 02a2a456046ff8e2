package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

// LoadCSV reads the input table from a CSV file. The table carries at least
// sku_id, date, units_sold and inventory_level; enrichment columns from the
// order sync (order ids, discounts, prices) are ignored. Multiple rows per
// (sku, date) are aggregated (units summed, last known inventory kept) so
// each history satisfies the strictly-increasing-dates invariant.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input table %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses the input table from a reader. See LoadCSV.
func Read(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read input header: %w", err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxSKU := colIndex("sku_id", "sku")
	idxDate := colIndex("date")
	idxUnits := colIndex("units_sold", "units sold", "quantity")
	idxInventory := colIndex("inventory_level", "inventory", "stock")

	if idxSKU < 0 || idxDate < 0 || idxUnits < 0 {
		return nil, fmt.Errorf("input table is missing required columns (sku_id, date, units_sold)")
	}

	type daily struct {
		units        float64
		inventory    float64
		hasInventory bool
	}
	perSKU := make(map[string]map[time.Time]*daily)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("input table line %d: %w", line, err)
		}
		line++

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		sku := get(idxSKU)
		if sku == "" {
			continue
		}

		day, err := parseDate(get(idxDate))
		if err != nil {
			return nil, fmt.Errorf("input table line %d: %w", line, err)
		}

		units, _ := parseFloat(get(idxUnits))

		if perSKU[sku] == nil {
			perSKU[sku] = make(map[time.Time]*daily)
		}
		d := perSKU[sku][day]
		if d == nil {
			d = &daily{}
			perSKU[sku][day] = d
		}
		d.units += units

		if raw := get(idxInventory); raw != "" {
			if inv, ok := parseFloat(raw); ok {
				d.inventory = inv
				d.hasInventory = true
			}
		}
	}

	histories := make([]domain.SKUHistory, 0, len(perSKU))
	for sku, days := range perSKU {
		records := make([]domain.SeriesRecord, 0, len(days))
		for day, d := range days {
			records = append(records, domain.SeriesRecord{
				Date:           day,
				UnitsSold:      d.units,
				InventoryLevel: d.inventory,
				HasInventory:   d.hasInventory,
			})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
		histories = append(histories, domain.SKUHistory{SKUID: sku, Records: records})
	}

	return NewStore(histories), nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{domain.DateFormat, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return domain.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}
