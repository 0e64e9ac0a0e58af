package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// maxResponseSize is the maximum allowed response size from the WooCommerce
// API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// defaultPageSize is used when the caller passes a non-positive page size.
const defaultPageSize = 20

// Adapter implements the OrderSource port against the WooCommerce REST API.
type Adapter struct {
	config     *Config
	httpClient *http.Client
}

// NewAdapter creates a WooCommerce adapter with the given configuration.
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FetchOrders fetches one page of recent orders, newest first per the API's
// default ordering. Transport failures map to ErrSourceUnavailable and
// non-2xx responses to ErrSourceRequestFailed.
func (a *Adapter) FetchOrders(ctx context.Context, pageSize int) ([]reconcile.StoreOrder, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	endpoint := fmt.Sprintf("%s/wp-json/wc/v3/orders?%s", a.config.BaseURL,
		url.Values{"per_page": []string{strconv.Itoa(pageSize)}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", a.config.BasicAuth())
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("woocommerce: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr WooError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", reconcile.ErrSourceRequestFailed, resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", reconcile.ErrSourceRequestFailed, resp.StatusCode)
	}

	var wooOrders []WooOrder
	if err := json.Unmarshal(body, &wooOrders); err != nil {
		return nil, fmt.Errorf("%w: %v", reconcile.ErrSourceRequestFailed, err)
	}

	orders := make([]reconcile.StoreOrder, 0, len(wooOrders))
	for i := range wooOrders {
		orders = append(orders, convertWooOrder(&wooOrders[i]))
	}
	return orders, nil
}

// convertWooOrder converts a WooCommerce order payload to the domain model.
func convertWooOrder(w *WooOrder) reconcile.StoreOrder {
	order := reconcile.StoreOrder{
		ID:        w.ID,
		Number:    w.Number,
		Status:    w.Status,
		Currency:  w.Currency,
		Total:     w.Total,
		CreatedAt: w.DateCreated,
		Billing: reconcile.OrderBilling{
			Email:     w.Billing.Email,
			FirstName: w.Billing.FirstName,
			LastName:  w.Billing.LastName,
			Phone:     w.Billing.Phone,
			Street:    w.Billing.Address1,
			City:      w.Billing.City,
		},
		LineItems: make([]reconcile.OrderLineItem, 0, len(w.LineItems)),
	}

	for i := range w.LineItems {
		item := &w.LineItems[i]
		order.LineItems = append(order.LineItems, reconcile.OrderLineItem{
			SKU:      item.SKU,
			Name:     item.Name,
			Quantity: item.Quantity.String(),
			Price:    item.PriceString(),
		})
	}

	return order
}

// Ensure Adapter implements the OrderSource port
var _ reconcile.OrderSource = (*Adapter)(nil)
