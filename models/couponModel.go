package models

import (
	"time"

	"gorm.io/gorm"
)

type Coupon struct {
	gorm.Model
	Code string `json:"code" binding:"required" gorm:"uniqueIndex;size:64"`
	// DiscountPercentage is a whole percentage between 1 and 100.
	DiscountPercentage int                   `json:"discountPercentage" binding:"required,min=1,max=100"`
	EventID            uint                  `json:"eventId" binding:"required" gorm:"index"`
	IsActive           bool                  `json:"isActive"`
	ExpiresAt          *time.Time            `json:"expiresAt"`
	ExcludedStalls     []CouponExcludedStall `json:"excludedStalls" gorm:"foreignKey:CouponID;constraint:OnDelete:CASCADE"`
}

type CouponExcludedStall struct {
	ID       uint `json:"-" gorm:"primaryKey"`
	CouponID uint `json:"-" gorm:"index"`
	StallID  uint `json:"stallId"`
}
