package services

import (
	"errors"
	"testing"

	"github.com/festora/festora-api/models"
)

type fakeOrderRepo struct {
	products map[uint]*models.Product
	orders   map[uint]*models.Order
	nextID   uint
}

func newFakeOrderRepo(products ...models.Product) *fakeOrderRepo {
	repo := &fakeOrderRepo{
		products: make(map[uint]*models.Product),
		orders:   make(map[uint]*models.Order),
		nextID:   1,
	}
	for i := range products {
		product := products[i]
		repo.products[product.ID] = &product
	}
	return repo
}

func (r *fakeOrderRepo) ProductsByIDs(productIDs []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product)
	for _, id := range productIDs {
		if product, ok := r.products[id]; ok {
			result[id] = *product
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) CreateOrderWithItems(order *models.Order, items []models.OrderItem) error {
	// All-or-nothing, mirroring the transactional gorm implementation.
	for _, item := range items {
		product, ok := r.products[item.ProductID]
		if !ok || product.Stock < item.Quantity {
			return ErrInsufficientStock
		}
	}
	for _, item := range items {
		r.products[item.ProductID].Stock -= item.Quantity
	}

	order.ID = r.nextID
	r.nextID++
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(orderID uint) (*models.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByUser(userID uint) ([]models.Order, error) {
	var result []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(orderID uint, status string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(orderID uint, status, paymentID string) error {
	order, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	order.PaymentID = paymentID
	return nil
}

func stockedProduct(id uint, price, stock int, stallID uint) models.Product {
	product := models.Product{Price: price, Stock: stock, StallID: stallID}
	product.ID = id
	return product
}

func newOrderService(repo *fakeOrderRepo, cartRepo *fakeCartRepo, couponRepo *fakeCouponRepo) *OrderService {
	if couponRepo == nil {
		couponRepo = &fakeCouponRepo{coupons: map[string]*models.Coupon{}}
	}
	return &OrderService{
		Repo:    repo,
		Carts:   &CartService{Repo: cartRepo},
		Coupons: &CouponValidator{Repo: couponRepo},
	}
}

func codRequest(total, discount int, items ...CheckoutItem) CheckoutRequest {
	return CheckoutRequest{
		FullName:      "Nimal Perera",
		Email:         "nimal@example.com",
		Phone:         "0771234567",
		PaymentMethod: models.PaymentMethodCOD,
		Total:         total,
		Discount:      discount,
		Items:         items,
	}
}

func TestCheckoutSnapshotsCatalogPrices(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1500, 10, 1))
	cartRepo := newFakeCartRepo(testProduct(1, 1500))
	svc := newOrderService(repo, cartRepo, nil)

	order, err := svc.Checkout(10, codRequest(3000, 0, CheckoutItem{ProductID: 1, Quantity: 2}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if order.Total != 3000 || order.Subtotal != 3000 {
		t.Errorf("Expected total 3000, got total=%d subtotal=%d", order.Total, order.Subtotal)
	}
	if len(order.Items) != 1 || order.Items[0].Price != 1500 {
		t.Errorf("Expected snapshotted unit price 1500, got %+v", order.Items)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected pending status, got %s", order.Status)
	}
}

func TestCheckoutRejectsMismatchedTotal(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1500, 10, 1))
	svc := newOrderService(repo, newFakeCartRepo(), nil)

	_, err := svc.Checkout(10, codRequest(100, 0, CheckoutItem{ProductID: 1, Quantity: 2}))
	if !errors.Is(err, ErrTotalMismatch) {
		t.Errorf("Expected ErrTotalMismatch, got %v", err)
	}
	if len(repo.orders) != 0 {
		t.Error("Expected no order to be created on mismatch")
	}
}

func TestCheckoutDecrementsStockAndRejectsOverdraft(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 3, 1))
	svc := newOrderService(repo, newFakeCartRepo(), nil)

	if _, err := svc.Checkout(10, codRequest(2000, 0, CheckoutItem{ProductID: 1, Quantity: 2})); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if repo.products[1].Stock != 1 {
		t.Errorf("Expected stock 1 after checkout, got %d", repo.products[1].Stock)
	}

	_, err := svc.Checkout(10, codRequest(2000, 0, CheckoutItem{ProductID: 1, Quantity: 2}))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("Expected ErrInsufficientStock, got %v", err)
	}
	if repo.products[1].Stock != 1 {
		t.Errorf("Expected stock unchanged on rejection, got %d", repo.products[1].Stock)
	}
}

func TestCheckoutCODClearsCart(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 1))
	cartRepo := newFakeCartRepo(testProduct(1, 1000))
	svc := newOrderService(repo, cartRepo, nil)

	svc.Carts.AddItem(UserOwnerKey(10), 1, 2)

	if _, err := svc.Checkout(10, codRequest(2000, 0, CheckoutItem{ProductID: 1, Quantity: 2})); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines, _ := svc.Carts.ListItems(UserOwnerKey(10))
	if len(lines) != 0 {
		t.Errorf("Expected cart cleared after COD checkout, got %d lines", len(lines))
	}
}

func TestCheckoutPayHereKeepsCart(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 1))
	cartRepo := newFakeCartRepo(testProduct(1, 1000))
	svc := newOrderService(repo, cartRepo, nil)

	svc.Carts.AddItem(UserOwnerKey(10), 1, 2)

	req := codRequest(2000, 0, CheckoutItem{ProductID: 1, Quantity: 2})
	req.PaymentMethod = models.PaymentMethodPayHere
	if _, err := svc.Checkout(10, req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines, _ := svc.Carts.ListItems(UserOwnerKey(10))
	if len(lines) != 1 {
		t.Errorf("Expected cart kept until redirect-back, got %d lines", len(lines))
	}
}

func TestCheckoutWithCouponRecomputesDiscount(t *testing.T) {
	// SUMMER10 scenario: stall 7 excluded, product 1 on stall 7,
	// product 2 on stall 8. Expect discount 200 and total 2800.
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 7), stockedProduct(2, 2000, 10, 8))
	svc := newOrderService(repo, newFakeCartRepo(), summerRepo())

	req := codRequest(2800, 200, CheckoutItem{ProductID: 1, Quantity: 1}, CheckoutItem{ProductID: 2, Quantity: 1})
	req.CouponCode = "SUMMER10"

	order, err := svc.Checkout(10, req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if order.Subtotal != 3000 || order.Discount != 200 || order.Total != 2800 {
		t.Errorf("Expected 3000/200/2800, got %d/%d/%d", order.Subtotal, order.Discount, order.Total)
	}
	if order.CouponID == nil {
		t.Fatal("Expected coupon id recorded on the order")
	}

	// Only the eligible item carries the coupon reference.
	for _, item := range order.Items {
		eligible := item.ProductID == 2
		if eligible && item.CouponID == nil {
			t.Errorf("Expected coupon id on item %d", item.ProductID)
		}
		if !eligible && item.CouponID != nil {
			t.Errorf("Did not expect coupon id on item %d", item.ProductID)
		}
	}
}

func TestCheckoutRejectsInvalidCoupon(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 7))
	svc := newOrderService(repo, newFakeCartRepo(), summerRepo())

	// Only the excluded stall's product: validator says no.
	req := codRequest(1000, 0, CheckoutItem{ProductID: 1, Quantity: 1})
	req.CouponCode = "SUMMER10"

	_, err := svc.Checkout(10, req)
	var couponErr *CouponRejectedError
	if !errors.As(err, &couponErr) {
		t.Fatalf("Expected CouponRejectedError, got %v", err)
	}
	if couponErr.Message == "" {
		t.Error("Expected a human-readable rejection message")
	}
}

func TestCheckoutUnknownProduct(t *testing.T) {
	svc := newOrderService(newFakeOrderRepo(), newFakeCartRepo(), nil)

	_, err := svc.Checkout(10, codRequest(0, 0, CheckoutItem{ProductID: 9, Quantity: 1}))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPreviewMatchesCheckoutTotals(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 7), stockedProduct(2, 2000, 10, 8))
	svc := newOrderService(repo, newFakeCartRepo(), summerRepo())

	items := []CheckoutItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}
	totals, validation, err := svc.Preview(items, "SUMMER10")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if validation == nil || !validation.Valid {
		t.Fatal("Expected a valid coupon in preview")
	}

	req := codRequest(totals.Total, totals.Discount, items...)
	req.CouponCode = "SUMMER10"
	order, err := svc.Checkout(10, req)
	if err != nil {
		t.Fatalf("Preview totals rejected at checkout: %v", err)
	}
	if order.Total != totals.Total {
		t.Errorf("Preview total %d != order total %d", totals.Total, order.Total)
	}
}

func TestMarkPaymentResult(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 1))
	svc := newOrderService(repo, newFakeCartRepo(), nil)

	order, err := svc.Checkout(10, codRequest(1000, 0, CheckoutItem{ProductID: 1, Quantity: 1}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := svc.MarkPaymentResult(order.ID, true, "320025"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stored, _ := repo.FindByID(order.ID)
	if stored.Status != models.OrderStatusPaid || stored.PaymentID != "320025" {
		t.Errorf("Expected paid/320025, got %s/%s", stored.Status, stored.PaymentID)
	}

	if err := svc.MarkPaymentResult(order.ID, false, "320026"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stored, _ = repo.FindByID(order.ID)
	if stored.Status != models.OrderStatusFailed {
		t.Errorf("Expected failed status, got %s", stored.Status)
	}
}

func TestMarkPaymentResultUnknownOrder(t *testing.T) {
	svc := newOrderService(newFakeOrderRepo(), newFakeCartRepo(), nil)

	if err := svc.MarkPaymentResult(99, true, "320025"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCompleteOrder(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 1))
	svc := newOrderService(repo, newFakeCartRepo(), nil)

	order, err := svc.Checkout(10, codRequest(1000, 0, CheckoutItem{ProductID: 1, Quantity: 1}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := svc.CompleteOrder(order.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stored, _ := repo.FindByID(order.ID)
	if stored.Status != models.OrderStatusCompleted {
		t.Errorf("Expected completed status, got %s", stored.Status)
	}

	// Completed is terminal.
	if err := svc.CompleteOrder(order.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation on repeat completion, got %v", err)
	}
}

func TestCompleteOrderRejectsFailedAndUnknown(t *testing.T) {
	repo := newFakeOrderRepo(stockedProduct(1, 1000, 10, 1))
	svc := newOrderService(repo, newFakeCartRepo(), nil)

	order, err := svc.Checkout(10, codRequest(1000, 0, CheckoutItem{ProductID: 1, Quantity: 1}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := svc.MarkPaymentResult(order.ID, false, "320026"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := svc.CompleteOrder(order.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for a failed order, got %v", err)
	}
	if err := svc.CompleteOrder(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for an unknown order, got %v", err)
	}
}
