package models

import "gorm.io/gorm"

// CartItem belongs to either an authenticated user or an anonymous
// cart token. OwnerKey holds "user:<id>" for the former and the raw
// token for the latter, so a single table serves both.
type CartItem struct {
	gorm.Model
	OwnerKey  string `json:"-" gorm:"uniqueIndex:idx_owner_product;size:191"`
	ProductID uint   `json:"productId" gorm:"uniqueIndex:idx_owner_product"`
	Quantity  int    `json:"quantity"`
}
