package repositories

import (
	"errors"

	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/services"
	"gorm.io/gorm"
)

type CouponRepository struct {
	DB *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{DB: db}
}

// FindByCode matches the code verbatim. MySQL default collations are
// case-insensitive, so the lookup re-checks the stored code before
// returning.
func (r *CouponRepository) FindByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.DB.Preload("ExcludedStalls").Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	if coupon.Code != code {
		return nil, services.ErrNotFound
	}
	return &coupon, nil
}

func (r *CouponRepository) StallIDsForEvent(eventID uint) ([]uint, error) {
	var stallIDs []uint
	err := r.DB.Model(&models.Stall{}).Where("event_id = ?", eventID).Pluck("id", &stallIDs).Error
	if err != nil {
		return nil, err
	}
	return stallIDs, nil
}

func (r *CouponRepository) StallsForProducts(productIDs []uint) (map[uint]uint, error) {
	result := make(map[uint]uint, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var products []models.Product
	if err := r.DB.Select("id", "stall_id").Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, product := range products {
		result[product.ID] = product.StallID
	}
	return result, nil
}
