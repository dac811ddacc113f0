package model

// Cart lives in redis as a JSON blob keyed by its token. Lines hold only
// references and quantities; prices are always resolved against the live
// catalog when the cart is read.
type Cart struct {
	Token      string     `json:"token"`
	UserID     *uint      `json:"user_id,omitempty"`
	Items      []CartLine `json:"items"`
	CouponCode string     `json:"coupon_code,omitempty"`
}

type CartLine struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindLine returns the index of the line matching product and variant, or -1.
func (c *Cart) FindLine(productID uint, variantID *uint) int {
	for i, line := range c.Items {
		if line.ProductID != productID {
			continue
		}
		if (line.VariantID == nil) != (variantID == nil) {
			continue
		}
		if line.VariantID != nil && *line.VariantID != *variantID {
			continue
		}
		return i
	}
	return -1
}
