// Package shopify pulls recent orders from a Shopify shop and lands them in
// the sales-history table the forecasting engine reads.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	apiVersion    = "2024-01"
	ordersPerPage = 250 // Shopify's maximum page size
)

// Client talks to the Shopify Admin REST API for one shop.
type Client struct {
	shopURL    string
	httpClient *http.Client
}

// NewClient builds a client authenticated with a static Admin API access
// token.
func NewClient(ctx context.Context, shopURL, accessToken string) (*Client, error) {
	shopURL = strings.TrimSuffix(strings.TrimSpace(shopURL), "/")
	if shopURL == "" {
		return nil, fmt.Errorf("shop url is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if !strings.Contains(shopURL, "://") {
		shopURL = "https://" + shopURL
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return &Client{
		shopURL:    shopURL,
		httpClient: oauth2.NewClient(ctx, source),
	}, nil
}

// FetchOrders returns line-item rows for all orders created in the last
// `days` days.
func (c *Client) FetchOrders(ctx context.Context, days int) ([]OrderRow, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now().UTC()

	query := url.Values{}
	query.Set("status", "any")
	query.Set("limit", fmt.Sprintf("%d", ordersPerPage))
	query.Set("created_at_min", now.AddDate(0, 0, -days).Format(time.RFC3339))
	query.Set("created_at_max", now.Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json?%s", c.shopURL, apiVersion, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build orders request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orders request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("orders request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	return flattenOrders(payload.Orders), nil
}
