package services

import "github.com/festora/festora-api/models"

// PricingLine is one cart row priced from the catalog, in minor
// currency units.
type PricingLine struct {
	ProductID uint
	Quantity  int
	UnitPrice int
}

type Totals struct {
	Subtotal int `json:"subtotal"`
	Discount int `json:"discount"`
	Total    int `json:"total"`
}

// CalculateTotals is the single authoritative pricing computation. It
// is used both for the checkout preview and for the order total, so
// the two can never drift apart.
func CalculateTotals(lines []PricingLine, coupon *models.Coupon, applicableProductIDs []uint) Totals {
	subtotal := 0
	for _, line := range lines {
		subtotal += line.UnitPrice * line.Quantity
	}

	if coupon == nil {
		return Totals{Subtotal: subtotal, Discount: 0, Total: subtotal}
	}

	applicableSubtotal := subtotal
	if len(applicableProductIDs) > 0 {
		applicable := make(map[uint]bool, len(applicableProductIDs))
		for _, id := range applicableProductIDs {
			applicable[id] = true
		}
		applicableSubtotal = 0
		for _, line := range lines {
			if applicable[line.ProductID] {
				applicableSubtotal += line.UnitPrice * line.Quantity
			}
		}
	}

	// Round half up on the fractional minor unit.
	discount := (applicableSubtotal*coupon.DiscountPercentage + 50) / 100

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}
}
