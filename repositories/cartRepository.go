package repositories

import (
	"errors"

	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/services"
	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

func (r *CartRepository) ItemByOwnerAndProduct(ownerKey string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.Where("owner_key = ? AND product_id = ?", ownerKey, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) ItemByID(ownerKey string, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.Where("owner_key = ? AND id = ?", ownerKey, itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) ItemsByOwner(ownerKey string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.Where("owner_key = ?", ownerKey).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepository) Create(item *models.CartItem) error {
	return r.DB.Create(item).Error
}

func (r *CartRepository) Save(item *models.CartItem) error {
	return r.DB.Save(item).Error
}

func (r *CartRepository) Delete(itemID uint) error {
	return r.DB.Delete(&models.CartItem{}, itemID).Error
}

func (r *CartRepository) DeleteByOwner(ownerKey string) error {
	return r.DB.Where("owner_key = ?", ownerKey).Delete(&models.CartItem{}).Error
}

func (r *CartRepository) ProductsByIDs(productIDs []uint) (map[uint]models.Product, error) {
	return productsByIDs(r.DB, productIDs)
}

func productsByIDs(db *gorm.DB, productIDs []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var products []models.Product
	if err := db.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, product := range products {
		result[product.ID] = product
	}
	return result, nil
}
