package repositories

import (
	"errors"

	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/services"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) ProductsByIDs(productIDs []uint) (map[uint]models.Product, error) {
	return productsByIDs(r.DB, productIDs)
}

// CreateOrderWithItems writes the order, its items and the stock
// decrements in one transaction. The decrement is conditional on
// sufficient stock, so concurrent checkouts cannot oversell.
func (r *OrderRepository) CreateOrderWithItems(order *models.Order, items []models.OrderItem) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID

			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", items[i].ProductID, items[i].Quantity).
				Update("stock", gorm.Expr("stock - ?", items[i].Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return services.ErrInsufficientStock
			}

			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
}

func (r *OrderRepository) FindByID(orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.Preload("Items").Where("user_id = ?", userID).Order("id DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(orderID uint, status string) error {
	result := r.DB.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) UpdatePaymentStatus(orderID uint, status, paymentID string) error {
	result := r.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": status, "payment_id": paymentID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrNotFound
	}
	return nil
}
