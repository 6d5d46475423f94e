package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/festora/festora-api/initializers"
	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/repositories"
	"github.com/festora/festora-api/services"
	"github.com/festora/festora-api/utils"
	"github.com/gin-gonic/gin"
)

func orderService() *services.OrderService {
	return &services.OrderService{
		Repo:    repositories.NewOrderRepository(initializers.DB),
		Carts:   cartService(),
		Coupons: couponValidator(),
	}
}

func authedUserID(ctx *gin.Context) (uint, bool) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID.(uint), true
}

func respondCheckoutError(ctx *gin.Context, err error) {
	var couponErr *services.CouponRejectedError
	switch {
	case errors.As(err, &couponErr):
		sendErrorResponse(ctx, http.StatusBadRequest, couponErr.Message)
	case errors.Is(err, services.ErrTotalMismatch):
		sendErrorResponse(ctx, http.StatusBadRequest, "Submitted total does not match the current prices. Refresh your cart and try again.")
	case errors.Is(err, services.ErrInsufficientStock):
		sendErrorResponse(ctx, http.StatusBadRequest, "One or more items are out of stock.")
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "One or more products no longer exist.")
	case errors.Is(err, services.ErrValidation):
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
	default:
		log.Println("Checkout error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
	}
}

func sendOrderConfirmationEmail(order *models.Order) {
	emailData := utils.EmailData{
		Name:    order.FullName,
		Message: "Your order has been placed and will be confirmed by the vendor shortly.",
		OrderID: order.ID,
		Total:   utils.FormatAmount(order.Total),
		LogoURL: os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	if err := utils.SendEmail(order.Email, "Order Confirmation", emailData, templatePath); err != nil {
		log.Println("Failed to send order confirmation email:", err)
	}
}

type previewInput struct {
	Items      []services.CheckoutItem `json:"items" binding:"required,min=1,dive"`
	CouponCode string                  `json:"couponCode"`
}

// POST /api/checkout/preview computes authoritative totals for the
// checkout page from catalog prices.
func PreviewCheckout(ctx *gin.Context) {
	var input previewInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	totals, validation, err := orderService().Preview(input.Items, input.CouponCode)
	if err != nil {
		log.Println("Preview error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to compute totals")
		return
	}

	response := gin.H{"totals": totals}
	if validation != nil {
		response["coupon"] = validation
	}
	sendJSONResponse(ctx, http.StatusOK, response)
}

// POST /api/orders handles cash-on-delivery checkout.
func CreateOrder(ctx *gin.Context) {
	userID, ok := authedUserID(ctx)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	req.PaymentMethod = models.PaymentMethodCOD

	order, err := orderService().Checkout(userID, req)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}

	go sendOrderConfirmationEmail(order)

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"orderId": order.ID,
		"order":   order,
	})
}

// POST /api/orders/payhere creates a pending order and returns the
// gateway redirect form fields. The cart is left intact until the
// client returns from the gateway.
func CreatePayHereOrder(ctx *gin.Context) {
	userID, ok := authedUserID(ctx)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	req.PaymentMethod = models.PaymentMethodPayHere

	order, err := orderService().Checkout(userID, req)
	if err != nil {
		respondCheckoutError(ctx, err)
		return
	}

	items := fmt.Sprintf("Order #%d", order.ID)
	checkout, err := utils.BuildPayHereCheckout(order.ID, order.Total, order.FullName, order.Email, order.Phone, items)
	if err != nil {
		log.Println("PayHere checkout error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"orderId":  order.ID,
		"checkout": checkout,
	})
}

// POST /api/payhere/notify receives the asynchronous gateway callback.
// Rejected on signature mismatch with no state change.
func PayHereNotify(ctx *gin.Context) {
	merchantID := ctx.PostForm("merchant_id")
	orderRef := ctx.PostForm("order_id")
	paymentID := ctx.PostForm("payment_id")
	amount := ctx.PostForm("payhere_amount")
	currency := ctx.PostForm("payhere_currency")
	statusCode := ctx.PostForm("status_code")
	md5sig := ctx.PostForm("md5sig")

	merchantSecret := os.Getenv("PAYHERE_MERCHANT_SECRET")
	if !utils.VerifyNotification(merchantID, orderRef, amount, currency, statusCode, md5sig, merchantSecret) {
		log.Println("PayHere notification rejected: signature mismatch for order", orderRef)
		ctx.Status(http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseUint(orderRef, 10, 64)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return
	}

	switch statusCode {
	case utils.PayHereStatusSuccess:
		err = orderService().MarkPaymentResult(uint(orderID), true, paymentID)
	case utils.PayHereStatusCanceled, utils.PayHereStatusFailed, utils.PayHereStatusChargeback:
		err = orderService().MarkPaymentResult(uint(orderID), false, paymentID)
	default:
		// Pending; nothing to record yet.
		ctx.Status(http.StatusOK)
		return
	}

	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			ctx.Status(http.StatusNotFound)
			return
		}
		log.Println("Failed to apply payment notification:", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}
	ctx.Status(http.StatusOK)
}

// PATCH /api/orders/:id/complete marks a fulfilled order completed,
// for vendors closing out COD deliveries.
func CompleteOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := orderService().CompleteOrder(uint(orderID)); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrValidation):
			sendErrorResponse(ctx, http.StatusBadRequest, "Only pending or paid orders can be completed")
		default:
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to complete order")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order marked as completed"})
}

// GET /api/orders returns the authenticated user's order history.
func GetOrders(ctx *gin.Context) {
	userID, ok := authedUserID(ctx)
	if !ok {
		return
	}

	orders, err := orderService().Repo.FindByUser(userID)
	if err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func orderForCaller(ctx *gin.Context) (*models.Order, bool) {
	userID, ok := authedUserID(ctx)
	if !ok {
		return nil, false
	}

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order id")
		return nil, false
	}

	order, err := orderService().Repo.FindByID(uint(orderID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch order")
		}
		return nil, false
	}
	if order.UserID != userID {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return nil, false
	}
	return order, true
}

// GET /api/orders/:id
func GetOrder(ctx *gin.Context) {
	order, ok := orderForCaller(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

// GET /api/orders/:id/payment looks the payment up on the PayHere
// retrieval API.
func GetOrderPayment(ctx *gin.Context) {
	order, ok := orderForCaller(ctx)
	if !ok {
		return
	}

	details, err := utils.FetchPaymentDetails(fmt.Sprintf("%d", order.ID))
	if err != nil {
		log.Println("PayHere lookup error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch payment details")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"payment": details})
}
