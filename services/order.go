package services

import (
	"github.com/festora/festora-api/models"
)

type OrderRepository interface {
	ProductsByIDs(productIDs []uint) (map[uint]models.Product, error)
	// CreateOrderWithItems persists the order, its items and the stock
	// decrement as one transaction. Returns ErrInsufficientStock when
	// any product's stock cannot cover its quantity.
	CreateOrderWithItems(order *models.Order, items []models.OrderItem) error
	FindByID(orderID uint) (*models.Order, error)
	FindByUser(userID uint) ([]models.Order, error)
	UpdatePaymentStatus(orderID uint, status, paymentID string) error
	UpdateStatus(orderID uint, status string) error
}

type CheckoutItem struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	FullName      string         `json:"fullName" binding:"required"`
	Email         string         `json:"email" binding:"required,email"`
	Phone         string         `json:"phone" binding:"required"`
	PaymentMethod string         `json:"paymentMethod" binding:"required,oneof=cod payhere"`
	CouponCode    string         `json:"couponCode"`
	Total         int            `json:"total"`
	Discount      int            `json:"discount"`
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
}

type OrderService struct {
	Repo    OrderRepository
	Carts   *CartService
	Coupons *CouponValidator
}

// CouponRejectedError carries the validator's message for a coupon
// that did not pass checkout revalidation.
type CouponRejectedError struct {
	Message string
}

func (e *CouponRejectedError) Error() string {
	return e.Message
}

// Checkout creates an order from the submitted items using catalog
// prices, never the client's. The client-submitted total and discount
// are only accepted when they match the server computation exactly.
func (s *OrderService) Checkout(userID uint, req CheckoutRequest) (*models.Order, error) {
	productIDs := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrValidation
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.Repo.ProductsByIDs(productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]PricingLine, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, ErrNotFound
		}
		lines = append(lines, PricingLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	var coupon *models.Coupon
	var applicableIDs []uint
	if req.CouponCode != "" {
		validation, err := s.Coupons.Validate(req.CouponCode, productIDs)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			return nil, &CouponRejectedError{Message: validation.Message}
		}
		coupon = validation.Coupon
		applicableIDs = validation.ApplicableProductIDs
	}

	totals := CalculateTotals(lines, coupon, applicableIDs)
	if req.Total != totals.Total || req.Discount != totals.Discount {
		return nil, ErrTotalMismatch
	}

	applicable := make(map[uint]bool, len(applicableIDs))
	for _, id := range applicableIDs {
		applicable[id] = true
	}

	order := &models.Order{
		UserID:        userID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
	}
	if coupon != nil {
		couponID := coupon.ID
		order.CouponID = &couponID
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range lines {
		orderItem := models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
		if coupon != nil && applicable[line.ProductID] {
			orderItem.CouponID = order.CouponID
		}
		items = append(items, orderItem)
	}

	if err := s.Repo.CreateOrderWithItems(order, items); err != nil {
		return nil, err
	}

	// COD orders are final at creation, so the cart empties now. For
	// gateway payments the client clears it after redirect-back.
	if req.PaymentMethod == models.PaymentMethodCOD {
		if err := s.Carts.Clear(UserOwnerKey(userID)); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Preview computes authoritative totals for the client's checkout page
// without creating anything.
func (s *OrderService) Preview(items []CheckoutItem, couponCode string) (*Totals, *CouponValidation, error) {
	productIDs := make([]uint, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.Repo.ProductsByIDs(productIDs)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]PricingLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, PricingLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	var validation *CouponValidation
	var coupon *models.Coupon
	var applicableIDs []uint
	if couponCode != "" {
		validation, err = s.Coupons.Validate(couponCode, productIDs)
		if err != nil {
			return nil, nil, err
		}
		if validation.Valid {
			coupon = validation.Coupon
			applicableIDs = validation.ApplicableProductIDs
		}
	}

	totals := CalculateTotals(lines, coupon, applicableIDs)
	return &totals, validation, nil
}

// MarkPaymentResult applies an asynchronous gateway notification.
func (s *OrderService) MarkPaymentResult(orderID uint, paid bool, paymentID string) error {
	status := models.OrderStatusFailed
	if paid {
		status = models.OrderStatusPaid
	}
	return s.Repo.UpdatePaymentStatus(orderID, status, paymentID)
}

// CompleteOrder marks a fulfilled order completed. Pending covers COD
// delivery, paid covers gateway orders. Failed or already completed
// orders cannot transition.
func (s *OrderService) CompleteOrder(orderID uint) error {
	order, err := s.Repo.FindByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusPaid {
		return ErrValidation
	}
	return s.Repo.UpdateStatus(orderID, models.OrderStatusCompleted)
}
