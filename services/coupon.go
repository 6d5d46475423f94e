package services

import (
	"fmt"
	"time"

	"github.com/festora/festora-api/models"
)

// CouponRepository loads the records the validator joins against.
type CouponRepository interface {
	// FindByCode looks the coupon up verbatim, excluded stalls preloaded.
	// Returns ErrNotFound when no such code exists.
	FindByCode(code string) (*models.Coupon, error)
	StallIDsForEvent(eventID uint) ([]uint, error)
	// StallsForProducts maps each known product id to its stall id.
	// Unknown product ids are simply absent from the result.
	StallsForProducts(productIDs []uint) (map[uint]uint, error)
}

type CouponValidation struct {
	Valid                bool           `json:"valid"`
	Coupon               *models.Coupon `json:"coupon,omitempty"`
	ApplicableProductIDs []uint         `json:"applicableProductIds"`
	Message              string         `json:"message,omitempty"`
}

type CouponValidator struct {
	Repo CouponRepository
	// Now is swappable for expiry tests; defaults to time.Now.
	Now func() time.Time
}

func (v *CouponValidator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate checks a coupon code against the given cart products and
// reports which of them the discount applies to. Business rejections
// (unknown, inactive, expired, nothing applicable) come back as
// Valid=false with a message, not as an error.
func (v *CouponValidator) Validate(code string, productIDs []uint) (*CouponValidation, error) {
	coupon, err := v.Repo.FindByCode(code)
	if err != nil {
		if err == ErrNotFound {
			return &CouponValidation{Valid: false, Message: "Invalid coupon code."}, nil
		}
		return nil, err
	}

	if !coupon.IsActive {
		return &CouponValidation{Valid: false, Message: "This coupon is no longer active."}, nil
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(v.now()) {
		return &CouponValidation{Valid: false, Message: "This coupon has expired."}, nil
	}

	eventStalls, err := v.Repo.StallIDsForEvent(coupon.EventID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[uint]bool, len(coupon.ExcludedStalls))
	for _, ex := range coupon.ExcludedStalls {
		excluded[ex.StallID] = true
	}

	eligible := make(map[uint]bool, len(eventStalls))
	for _, stallID := range eventStalls {
		if !excluded[stallID] {
			eligible[stallID] = true
		}
	}

	productStalls, err := v.Repo.StallsForProducts(productIDs)
	if err != nil {
		return nil, err
	}

	applicable := make([]uint, 0, len(productIDs))
	for _, productID := range productIDs {
		if stallID, ok := productStalls[productID]; ok && eligible[stallID] {
			applicable = append(applicable, productID)
		}
	}

	if len(applicable) == 0 {
		return &CouponValidation{
			Valid:   false,
			Message: "This coupon does not apply to any items in your cart.",
		}, nil
	}

	result := &CouponValidation{
		Valid:                true,
		Coupon:               coupon,
		ApplicableProductIDs: applicable,
	}
	if len(applicable) < len(productIDs) {
		result.Message = fmt.Sprintf("Coupon applies to %d of %d items in your cart.", len(applicable), len(productIDs))
	}
	return result, nil
}
