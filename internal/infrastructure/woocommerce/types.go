package woocommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// WooCommerce REST API Types
// ---------------------------------------------------------------------------

// WooOrder represents an order payload from GET /wp-json/wc/v3/orders.
// Monetary fields arrive as strings per the WooCommerce API.
type WooOrder struct {
	ID          int64         `json:"id"`
	Number      string        `json:"number"`
	Status      string        `json:"status"`
	Currency    string        `json:"currency"`
	Total       string        `json:"total"`
	DateCreated string        `json:"date_created"`
	Billing     WooBilling    `json:"billing"`
	LineItems   []WooLineItem `json:"line_items"`
}

// WooBilling is the billing block of a WooCommerce order.
type WooBilling struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// WooLineItem is a line item of a WooCommerce order. Quantity is numeric in
// the payload but price fields are strings.
type WooLineItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Quantity json.Number     `json:"quantity"`
	Price    json.RawMessage `json:"price"`
	Subtotal string          `json:"subtotal"`
	Total    string          `json:"total"`
}

// PriceString normalizes the price field to a plain numeric string. The API
// reports it as a JSON number or string depending on version.
func (i *WooLineItem) PriceString() string {
	raw := string(i.Price)
	if raw == "" || raw == "null" {
		return ""
	}
	var asString string
	if err := json.Unmarshal(i.Price, &asString); err == nil {
		return asString
	}
	return raw
}

// WooError is the error envelope WooCommerce returns on non-2xx responses.
type WooError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
