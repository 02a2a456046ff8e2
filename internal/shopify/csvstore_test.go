package shopify

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func readTable(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestAppendOrdersCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_history.csv")

	added, err := AppendOrders(path, []OrderRow{
		{OrderID: 1001, SKUID: "A1", Date: "2024-03-05", Time: "14:30:00", UnitsSold: 2},
	})
	if err != nil {
		t.Fatalf("AppendOrders failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}

	records := readTable(t, path)
	if len(records) != 2 {
		t.Fatalf("file has %d records, want header + 1 row", len(records))
	}
	if records[0][0] != "order_id" || records[0][1] != "sku_id" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "1001" || records[1][1] != "A1" || records[1][4] != "2" {
		t.Errorf("row = %v", records[1])
	}
	if records[1][5] != "" {
		t.Errorf("inventory cell = %q, want empty at sync time", records[1][5])
	}
}

func TestAppendOrdersDeduplicatesAndSorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_history.csv")

	_, err := AppendOrders(path, []OrderRow{
		{OrderID: 1002, SKUID: "A1", Date: "2024-03-06", Time: "09:00:00", UnitsSold: 3},
	})
	if err != nil {
		t.Fatalf("initial AppendOrders failed: %v", err)
	}

	added, err := AppendOrders(path, []OrderRow{
		// Same (order, sku) pair again: must be dropped.
		{OrderID: 1002, SKUID: "A1", Date: "2024-03-06", Time: "09:00:00", UnitsSold: 3},
		// Same order, different line item: kept.
		{OrderID: 1002, SKUID: "B2", Date: "2024-03-06", Time: "09:00:00", UnitsSold: 1},
		// Earlier order arriving late: must sort before the others.
		{OrderID: 1001, SKUID: "A1", Date: "2024-03-05", Time: "14:30:00", UnitsSold: 2},
	})
	if err != nil {
		t.Fatalf("second AppendOrders failed: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	records := readTable(t, path)
	if len(records) != 4 {
		t.Fatalf("file has %d records, want header + 3 rows", len(records))
	}
	if records[1][0] != "1001" {
		t.Errorf("rows not sorted by date: first row = %v", records[1])
	}
	if records[2][0] != "1002" || records[3][0] != "1002" {
		t.Errorf("later rows = %v / %v", records[2], records[3])
	}
}
