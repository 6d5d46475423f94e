package models

import "gorm.io/gorm"

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusCompleted = "completed"

	PaymentMethodCOD     = "cod"
	PaymentMethodPayHere = "payhere"
)

type Order struct {
	gorm.Model
	UserID        uint        `json:"userId" gorm:"index"`
	FullName      string      `json:"fullName"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Subtotal      int         `json:"subtotal"`
	Discount      int         `json:"discount"`
	Total         int         `json:"total"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentID     string      `json:"paymentId"`
	CouponID      *uint       `json:"couponId"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the unit price at purchase time so later catalog
// changes never alter historical orders.
type OrderItem struct {
	gorm.Model
	OrderID   uint  `json:"orderId" gorm:"index"`
	ProductID uint  `json:"productId"`
	Quantity  int   `json:"quantity"`
	Price     int   `json:"price"`
	CouponID  *uint `json:"couponId"`
}
