package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductImage struct {
	gorm.Model
	Url       string `json:"url" binding:"required"`
	ProductID uint   `json:"productId" binding:"required"`
}

type Product struct {
	gorm.Model
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	// Price is stored in minor currency units (cents).
	Price   int            `json:"price" binding:"required"`
	Stock   int            `json:"stock"`
	StallID uint           `json:"stallId" binding:"required" gorm:"index"`
	Tags    datatypes.JSON `json:"tags"`
	Images  []ProductImage `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
