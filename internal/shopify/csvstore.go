package shopify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var historyHeader = []string{
	"order_id", "sku_id", "date", "time", "units_sold", "inventory_level",
	"discount_code", "discount_amount", "order_amount", "line_item_name",
	"currency", "order_status",
}

// AppendOrders merges new order rows into the sales-history CSV. Rows whose
// (order id, sku) pair is already on file are skipped, and the table is
// rewritten sorted by date and time. Returns the number of rows added.
func AppendOrders(path string, rows []OrderRow) (int, error) {
	header, records, err := readExisting(path)
	if err != nil {
		return 0, err
	}

	col := func(name string) int {
		for i, h := range header {
			if normalizeColumn(h) == normalizeColumn(name) {
				return i
			}
		}
		return -1
	}
	idxOrder := col("order_id")
	idxSKU := col("sku_id")
	if idxSKU < 0 {
		idxSKU = col("sku")
	}
	idxDate := col("date")
	idxTime := col("time")

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[dedupeKey(cell(rec, idxOrder), cell(rec, idxSKU))] = struct{}{}
	}

	added := 0
	for _, row := range rows {
		key := dedupeKey(strconv.FormatInt(row.OrderID, 10), row.SKUID)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, renderRow(header, row))
		added++
	}

	sort.SliceStable(records, func(i, j int) bool {
		di, dj := cell(records[i], idxDate), cell(records[j], idxDate)
		if di != dj {
			return di < dj
		}
		return cell(records[i], idxTime) < cell(records[j], idxTime)
	})

	if err := writeTable(path, header, records); err != nil {
		return 0, err
	}
	return added, nil
}

func readExisting(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return historyHeader, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open sales history %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read sales history %s: %w", path, err)
	}
	if len(all) == 0 {
		return historyHeader, nil, nil
	}
	return all[0], all[1:], nil
}

// renderRow lays the order row out against whatever header the file already
// carries; columns the sync does not produce stay empty.
func renderRow(header []string, row OrderRow) []string {
	values := map[string]string{
		"orderid":        strconv.FormatInt(row.OrderID, 10),
		"skuid":          row.SKUID,
		"sku":            row.SKUID,
		"date":           row.Date,
		"time":           row.Time,
		"unitssold":      formatFloat(row.UnitsSold),
		"discountcode":   row.DiscountCode,
		"discountamount": formatFloat(row.DiscountAmount),
		"orderamount":    formatFloat(row.OrderAmount),
		"lineitemname":   row.LineItemName,
		"currency":       row.Currency,
		"orderstatus":    row.OrderStatus,
	}

	record := make([]string, len(header))
	for i, h := range header {
		record[i] = values[normalizeColumn(h)]
	}
	return record
}

func writeTable(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot write sales history %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func dedupeKey(orderID, sku string) string {
	return orderID + "|" + sku
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var columnSanitizer = strings.NewReplacer(" ", "", "_", "", "-", "")

func normalizeColumn(name string) string {
	return columnSanitizer.Replace(strings.ToLower(strings.TrimSpace(name)))
}
