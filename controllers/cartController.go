package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/festora/festora-api/initializers"
	"github.com/festora/festora-api/repositories"
	"github.com/festora/festora-api/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func cartService() *services.CartService {
	return &services.CartService{Repo: repositories.NewCartRepository(initializers.DB)}
}

func ownerKey(ctx *gin.Context) (string, bool) {
	key, exists := ctx.Get("owner_key")
	if !exists {
		sendErrorResponse(ctx, http.StatusUnauthorized, "No session or cart token present")
		return "", false
	}
	return key.(string), true
}

// respondCartError maps service failures onto the HTTP surface.
func respondCartError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, services.ErrValidation):
		sendErrorResponse(ctx, http.StatusBadRequest, "Quantity must be a positive integer")
	default:
		log.Println("Cart error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, fallback)
	}
}

// CreateCartToken mints an anonymous cart token for clients that do
// not have one yet.
func CreateCartToken(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"cartToken": uuid.NewString()})
}

type addCartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// POST /api/cart
func AddCartItem(ctx *gin.Context) {
	key, ok := ownerKey(ctx)
	if !ok {
		return
	}

	var input addCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := cartService().AddItem(key, input.ProductID, input.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product does not exist")
			return
		}
		respondCartError(ctx, err, "Failed to add item to cart")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Item added to cart", "item": item})
}

type updateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// PATCH /api/cart/:id replaces the quantity; 0 removes the item.
func UpdateCartItem(ctx *gin.Context) {
	key, ok := ownerKey(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var input updateCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	item, err := cartService().UpdateItem(key, uint(itemID), *input.Quantity)
	if err != nil {
		respondCartError(ctx, err, "Failed to update cart item")
		return
	}

	if item == nil {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item updated", "item": item})
}

// DELETE /api/cart/:id
func DeleteCartItem(ctx *gin.Context) {
	key, ok := ownerKey(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	if err := cartService().RemoveItem(key, uint(itemID)); err != nil {
		respondCartError(ctx, err, "Failed to delete cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item deleted"})
}

// GET /api/cart
func GetCart(ctx *gin.Context) {
	key, ok := ownerKey(ctx)
	if !ok {
		return
	}

	lines, err := cartService().ListItems(key)
	if err != nil {
		respondCartError(ctx, err, "Failed to fetch cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"items": lines})
}
