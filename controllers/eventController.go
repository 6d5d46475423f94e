package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/festora/festora-api/initializers"
	"github.com/festora/festora-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /api/events (admin)
func CreateEvent(ctx *gin.Context) {
	var event models.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if err := initializers.DB.Create(&event).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create event")
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// GET /api/events
func GetEvents(ctx *gin.Context) {
	var events []models.Event
	if err := initializers.DB.Preload("Stalls").Where("approved = ?", true).Find(&events).Error; err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"events": events})
}

// GET /api/events/:id
func GetEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid event id")
		return
	}

	var event models.Event
	if err := initializers.DB.Preload("Stalls").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Event not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch event")
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"event": event})
}

// PATCH /api/events/:id/approve (admin)
func ApproveEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid event id")
		return
	}

	result := initializers.DB.Model(&models.Event{}).Where("id = ?", eventID).Update("approved", true)
	if result.Error != nil {
		log.Println("Update error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to approve event")
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Event not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Event approved"})
}

// POST /api/stalls (admin)
func CreateStall(ctx *gin.Context) {
	var stall models.Stall
	if err := ctx.ShouldBindJSON(&stall); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var event models.Event
	if err := initializers.DB.First(&event, stall.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Event not found")
		} else {
			log.Println("Database error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	if err := initializers.DB.Create(&stall).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create stall")
		return
	}

	ctx.JSON(http.StatusCreated, stall)
}

// GET /api/events/:id/stalls
func GetEventStalls(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid event id")
		return
	}

	var stalls []models.Stall
	if err := initializers.DB.Where("event_id = ?", eventID).Find(&stalls).Error; err != nil {
		log.Println("Database error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch stalls")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"stalls": stalls})
}
