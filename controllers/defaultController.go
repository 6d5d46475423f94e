package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Festora API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Access user account (merges guest cart via x-cart-token)

CART
- POST "/api/cart-token" - Mint an anonymous cart token
- GET "/api/cart" - List cart items with products
- POST "/api/cart" - Add item to cart
- PATCH "/api/cart/{id}" - Set item quantity (0 removes)
- DELETE "/api/cart/{id}" - Remove cart item

COUPONS
- POST "/api/validate-coupon" - Check a coupon against cart products
- POST "/api/coupons" - Create coupon (admin)
- PATCH "/api/coupons/{id}/deactivate" - Deactivate coupon (admin)

CATALOG
- GET "/api/events" - List approved events with stalls
- GET "/api/events/{id}" - Get event by ID
- GET "/api/events/{id}/stalls" - List event stalls
- GET "/api/products" - List products
- GET "/api/products/{id}" - Get product by ID

ORDERS
- POST "/api/checkout/preview" - Authoritative totals preview
- POST "/api/orders" - Create cash-on-delivery order
- POST "/api/orders/payhere" - Create order and get gateway redirect fields
- POST "/api/payhere/notify" - Gateway payment notification
- GET "/api/orders" - Order history
- GET "/api/orders/{id}" - Get order by ID
- GET "/api/orders/{id}/payment" - Payment details from the gateway`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
