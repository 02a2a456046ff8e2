package shopify

import (
	"strconv"
	"time"

	"github.com/holoo/stockcast/internal/domain"
)

type ordersResponse struct {
	Orders []order `json:"orders"`
}

type order struct {
	ID              int64          `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	Currency        string         `json:"currency"`
	FinancialStatus string         `json:"financial_status"`
	TotalPrice      string         `json:"total_price"`
	DiscountCodes   []discountCode `json:"discount_codes"`
	LineItems       []lineItem     `json:"line_items"`
}

type discountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
}

type lineItem struct {
	SKU      string  `json:"sku"`
	Title    string  `json:"title"`
	Quantity float64 `json:"quantity"`
}

// OrderRow is one (order, line item) pair in the sales-history table's
// column layout. The inventory level is unknown at sync time and left blank.
type OrderRow struct {
	OrderID        int64
	SKUID          string
	Date           string
	Time           string
	UnitsSold      float64
	DiscountCode   string
	DiscountAmount float64
	OrderAmount    float64
	LineItemName   string
	Currency       string
	OrderStatus    string
}

// flattenOrders expands orders into one row per line item. Line items
// without a SKU cannot feed a per-SKU forecast and are dropped.
func flattenOrders(orders []order) []OrderRow {
	var rows []OrderRow
	for _, o := range orders {
		discount := ""
		discountAmount := 0.0
		if len(o.DiscountCodes) > 0 {
			discount = o.DiscountCodes[0].Code
			discountAmount = parsePrice(o.DiscountCodes[0].Amount)
		}
		created := o.CreatedAt.UTC()

		for _, item := range o.LineItems {
			if item.SKU == "" {
				continue
			}
			rows = append(rows, OrderRow{
				OrderID:        o.ID,
				SKUID:          item.SKU,
				Date:           created.Format(domain.DateFormat),
				Time:           created.Format("15:04:05"),
				UnitsSold:      item.Quantity,
				DiscountCode:   discount,
				DiscountAmount: discountAmount,
				OrderAmount:    parsePrice(o.TotalPrice),
				LineItemName:   item.Title,
				Currency:       o.Currency,
				OrderStatus:    o.FinancialStatus,
			})
		}
	}
	return rows
}

func parsePrice(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}
