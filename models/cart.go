package models

import "github.com/shopspring/decimal"

// CartItem is a product snapshot plus the quantity the shopper wants.
// Stock is the availability recorded when the item was added.
type CartItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	Quantity     int             `json:"quantity"`
	Stock        int             `json:"stock"`
}

// LineTotal is price × quantity before discount.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineDiscount is the discount amount taken off LineTotal.
func (i CartItem) LineDiscount() decimal.Decimal {
	return i.LineTotal().Mul(i.Discount).Div(hundred)
}

// Cart is an ordered set of items keyed by product id. It never stores totals.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartTotal struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem inserts the item with quantity 1, or bumps an existing entry by one.
// Quantity is clamped to the recorded stock instead of failing.
func (c *Cart) AddItem(item CartItem) {
	if i := c.index(item.ProductID); i >= 0 {
		c.Items[i].Quantity = min(c.Items[i].Quantity+1, c.Items[i].Stock)
		return
	}
	if item.Stock < 1 {
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// RemoveItem drops the entry; absent ids are ignored.
func (c *Cart) RemoveItem(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// UpdateQuantity sets quantity to min(qty, stock). qty <= 0 removes the item.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = min(qty, c.Items[i].Stock)
	}
}

// Merge folds other into c, summing quantities and clamping to stock.
func (c *Cart) Merge(other Cart) {
	for _, item := range other.Items {
		if i := c.index(item.ProductID); i >= 0 {
			c.Items[i].Quantity = min(c.Items[i].Quantity+item.Quantity, c.Items[i].Stock)
			continue
		}
		if item.Quantity < 1 {
			continue
		}
		item.Quantity = min(item.Quantity, item.Stock)
		c.Items = append(c.Items, item)
	}
}

// Subtract takes other's quantities out of c, dropping lines that reach zero.
// Lines only in c are kept.
func (c *Cart) Subtract(other Cart) {
	for _, item := range other.Items {
		if i := c.index(item.ProductID); i >= 0 {
			c.UpdateQuantity(item.ProductID, c.Items[i].Quantity-item.Quantity)
		}
	}
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Total derives subtotal, discount and total from the current items.
func (c *Cart) Total() CartTotal {
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
		discount = discount.Add(item.LineDiscount())
	}
	return CartTotal{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}
}
