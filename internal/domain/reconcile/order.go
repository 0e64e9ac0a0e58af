package reconcile

import "fmt"

// OriginTagPrefix is prepended to the upstream order ID to form the
// de-duplication key stored in the downstream order's origin field.
const OriginTagPrefix = "WC-"

// StoreOrder represents one order as fetched from the upstream commerce
// platform. It is read-only: the reconciler never writes back upstream.
type StoreOrder struct {
	// ID is the order identifier on the upstream platform
	ID int64
	// Number is the human-facing order number (may differ from ID)
	Number string
	// Status is the raw upstream status string (e.g. "processing")
	Status string
	// Currency is the upstream currency code
	Currency string
	// Total is the upstream order total as a numeric string
	Total string
	// Billing is the billing block attached to the order
	Billing OrderBilling
	// LineItems are the ordered line items
	LineItems []OrderLineItem
	// CreatedAt is the upstream creation timestamp in the shop timezone
	CreatedAt string
}

// OrderBilling is the billing block of a store order.
type OrderBilling struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Street    string
	City      string
}

// OrderLineItem is one line of a store order. Quantity and Price arrive as
// numeric strings and are only parsed during translation.
type OrderLineItem struct {
	// SKU is the merchant SKU; may be empty, in which case Name serves
	// as the product natural key
	SKU string
	// Name is the display name of the item
	Name string
	// Quantity is the ordered quantity as a numeric string
	Quantity string
	// Price is the unit price as a numeric string
	Price string
}

// OriginTag derives the de-duplication key for the order. Exactly one
// downstream order may exist per tag.
func (o *StoreOrder) OriginTag() string {
	return fmt.Sprintf("%s%d", OriginTagPrefix, o.ID)
}

// ClientRef is the string form of the upstream order ID, recorded on the
// downstream order as the client order reference.
func (o *StoreOrder) ClientRef() string {
	return fmt.Sprintf("%d", o.ID)
}
