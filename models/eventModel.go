package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Location    datatypes.JSON `json:"location"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
	OrganizerID uint           `json:"organizerId"`
	Approved    bool           `json:"approved"`
	Stalls      []Stall        `json:"stalls" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

type Stall struct {
	gorm.Model
	Name     string `json:"name" binding:"required"`
	EventID  uint   `json:"eventId" gorm:"index"`
	VendorID uint   `json:"vendorId"`
}
