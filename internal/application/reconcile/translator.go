package reconcile

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ordersync/backend/internal/domain/reconcile"
)

// TranslatorConfig holds the deployment-specific values baked into customer
// creation. These were constants in the first deployment and are configurable
// now so a second tenant does not inherit another shop's home country.
type TranslatorConfig struct {
	// HomeCountryID is the downstream country record assigned to every
	// created customer; billing addresses carry no country of their own
	HomeCountryID int64
	// PlaceholderEmailDomain is used to synthesize an email when the
	// billing block has none
	PlaceholderEmailDomain string
	// PlatformLabel names the upstream platform in synthetic customer
	// display names, e.g. "Woo"
	PlatformLabel string
}

// Validate applies defaults for unset fields.
func (c *TranslatorConfig) Validate() error {
	if c.PlaceholderEmailDomain == "" {
		c.PlaceholderEmailDomain = "example.com"
	}
	if c.PlatformLabel == "" {
		c.PlatformLabel = "Woo"
	}
	return nil
}

// Translator maps upstream order fields onto the downstream entity shapes
// consumed by the resolver and by order creation. All methods are pure.
type Translator struct {
	config TranslatorConfig
}

// NewTranslator creates a translator with the given configuration.
func NewTranslator(config TranslatorConfig) (*Translator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Translator{config: config}, nil
}

// ---------------------------------------------------------------------------
// Customer Translation
// ---------------------------------------------------------------------------

// CustomerKey returns the natural-key value for the order's customer. A
// blank billing email is replaced by a synthetic placeholder so every order
// resolves to some customer.
func (t *Translator) CustomerKey(order *reconcile.StoreOrder) string {
	email := strings.TrimSpace(order.Billing.Email)
	if email == "" {
		email = fmt.Sprintf("no-email-%d@%s", order.ID, t.config.PlaceholderEmailDomain)
	}
	return email
}

// CustomerValues returns the field values used when the customer has to be
// created downstream.
func (t *Translator) CustomerValues(order *reconcile.StoreOrder) reconcile.Values {
	fullName := strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName)
	if fullName == "" {
		fullName = fmt.Sprintf("%s Client #%d", t.config.PlatformLabel, order.ID)
	}

	return reconcile.Values{
		"name":          fullName,
		"email":         t.CustomerKey(order),
		"phone":         order.Billing.Phone,
		"street":        order.Billing.Street,
		"city":          order.Billing.City,
		"country_id":    t.config.HomeCountryID,
		"customer_rank": 1,
	}
}

// ---------------------------------------------------------------------------
// Product Translation
// ---------------------------------------------------------------------------

// ProductKey returns the natural-key value for a line item: the SKU when
// present, otherwise the display name. Two items sharing a name but lacking
// SKUs collapse to one product record.
func (t *Translator) ProductKey(item *reconcile.OrderLineItem) string {
	if item.SKU != "" {
		return item.SKU
	}
	return item.Name
}

// ProductValues returns the field values used when the product has to be
// created downstream. A non-numeric price yields a zero list price.
func (t *Translator) ProductValues(item *reconcile.OrderLineItem) reconcile.Values {
	return reconcile.Values{
		"name":         item.Name,
		"list_price":   ParseDecimal(item.Price),
		"default_code": t.ProductKey(item),
		"type":         "consu",
		"sale_ok":      true,
	}
}

// ---------------------------------------------------------------------------
// Line Translation
// ---------------------------------------------------------------------------

// Line assembles one downstream order line for a resolved product. Quantity
// and price parse failures yield zero rather than rejecting the order.
func (t *Translator) Line(item *reconcile.OrderLineItem, productID int64) reconcile.Values {
	return reconcile.Values{
		"product_id":      productID,
		"name":            item.Name,
		"product_uom_qty": ParseDecimal(item.Quantity),
		"price_unit":      ParseDecimal(item.Price),
	}
}

// OrderValues assembles the downstream sales order payload. Lines are wrapped
// in (0, 0, values) command triples as required by the ERP's one2many write
// format; the order is created in draft state.
func (t *Translator) OrderValues(order *reconcile.StoreOrder, customerID int64, lines []reconcile.Values) reconcile.Values {
	orderLines := make([]any, 0, len(lines))
	for _, line := range lines {
		orderLines = append(orderLines, []any{0, 0, line})
	}

	return reconcile.Values{
		"partner_id":       customerID,
		"origin":           order.OriginTag(),
		"client_order_ref": order.ClientRef(),
		"state":            "draft",
		"order_line":       orderLines,
	}
}

// ParseDecimal parses a numeric string, returning zero for empty or
// malformed input.
func ParseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
