package domain

import "time"

// CartLine is one product entry in a cart. Prices are captured at the time
// the product is added so a catalog price change does not silently reprice
// a cart the customer has already reviewed.
type CartLine struct {
	ProductID      string `json:"product_id" dynamodbav:"product_id"`
	Name           string `json:"name" dynamodbav:"name"`
	UnitPriceMinor int64  `json:"unit_price_minor" dynamodbav:"unit_price_minor"`
	Currency       string `json:"currency" dynamodbav:"currency"`
	ImageKey       string `json:"image_key,omitempty" dynamodbav:"image_key"`
	Quantity       int    `json:"quantity" dynamodbav:"quantity"`
}

// Cart is the single cart document for one customer, keyed by email.
// Lines are ordered by insertion and hold at most one entry per product;
// a line never carries quantity below 1 — it is removed instead.
type Cart struct {
	Email     string     `json:"email" dynamodbav:"email"`
	Lines     []CartLine `json:"items" dynamodbav:"lines"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Line returns the index of the line holding productID, or -1.
func (c *Cart) Line(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// CartTotals carries computed cart pricing in minor units, with display
// strings derived at the boundary.
type CartTotals struct {
	SubtotalMinor   int64  `json:"subtotal_minor"`
	ShippingMinor   int64  `json:"shipping_minor"`
	TotalMinor      int64  `json:"total_minor"`
	Currency        string `json:"currency"`
	ItemCount       int    `json:"item_count"`
	SubtotalDisplay string `json:"subtotal"`
	ShippingDisplay string `json:"shipping"`
	TotalDisplay    string `json:"total"`
}
