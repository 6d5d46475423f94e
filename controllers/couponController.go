package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/festora/festora-api/initializers"
	"github.com/festora/festora-api/models"
	"github.com/festora/festora-api/repositories"
	"github.com/festora/festora-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func couponValidator() *services.CouponValidator {
	return &services.CouponValidator{Repo: repositories.NewCouponRepository(initializers.DB)}
}

func parseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

type validateCouponInput struct {
	Code       string `json:"code" binding:"required"`
	ProductIDs []uint `json:"productIds"`
}

// POST /api/validate-coupon
//
// Business rejections (unknown, expired, nothing applicable) come back
// as 200 {valid:false, message}; only faults are HTTP errors.
func ValidateCoupon(ctx *gin.Context) {
	var input validateCouponInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result, err := couponValidator().Validate(input.Code, input.ProductIDs)
	if err != nil {
		log.Println("Coupon validation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to validate coupon")
		return
	}

	ctx.JSON(http.StatusOK, result)
}

type createCouponInput struct {
	Code               string `json:"code" binding:"required"`
	DiscountPercentage int    `json:"discountPercentage" binding:"required,min=1,max=100"`
	EventID            uint   `json:"eventId" binding:"required"`
	ExpiresAt          string `json:"expiresAt"`
	ExcludedStallIDs   []uint `json:"excludedStallIds"`
}

// POST /api/coupons (admin)
func CreateCoupon(ctx *gin.Context) {
	var input createCouponInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var event models.Event
	if err := initializers.DB.First(&event, input.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Event not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	coupon := models.Coupon{
		Code:               input.Code,
		DiscountPercentage: input.DiscountPercentage,
		EventID:            input.EventID,
		IsActive:           true,
	}
	if input.ExpiresAt != "" {
		expiresAt, err := parseTimestamp(input.ExpiresAt)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid expiresAt timestamp")
			return
		}
		coupon.ExpiresAt = &expiresAt
	}
	for _, stallID := range input.ExcludedStallIDs {
		coupon.ExcludedStalls = append(coupon.ExcludedStalls, models.CouponExcludedStall{StallID: stallID})
	}

	if err := initializers.DB.Create(&coupon).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to create coupon")
		return
	}

	ctx.JSON(http.StatusCreated, coupon)
}

// PATCH /api/coupons/:id/deactivate (admin)
func DeactivateCoupon(ctx *gin.Context) {
	couponID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid coupon id")
		return
	}

	result := initializers.DB.Model(&models.Coupon{}).Where("id = ?", couponID).Update("is_active", false)
	if result.Error != nil {
		log.Println("Update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to deactivate coupon")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Coupon not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Coupon deactivated"})
}
