package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parqio/spot-booking/internal/geo"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/httpresp"
	"github.com/parqio/spot-booking/internal/media"
	"github.com/parqio/spot-booking/internal/middleware"
	"github.com/parqio/spot-booking/internal/models"
)

type SpotHandler struct {
	db       *gorm.DB
	resolver geo.Resolver
	storage  *media.Storage
}

func NewSpotHandler(db *gorm.DB, resolver geo.Resolver, storage *media.Storage) *SpotHandler {
	return &SpotHandler{db: db, resolver: resolver, storage: storage}
}

// --------- Requests ---------

type CreateSpotRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourly_rate" binding:"required,gt=0"`
	Latitude    float64 `json:"latitude" binding:"required"`
	Longitude   float64 `json:"longitude" binding:"required"`
}

type UpdateSpotRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	HourlyRate  *float64 `json:"hourly_rate"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// --------- Handlers ---------

func (h *SpotHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// The spot's timezone is fixed from its coordinates at creation; every
	// wall-clock field of its bookings is interpreted in that zone.
	tz := h.resolver.TimezoneFor(c.Request.Context(), req.Latitude, req.Longitude)

	spot := models.Spot{
		HostID:      userID,
		Title:       req.Title,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Timezone:    tz,
		Status:      models.SpotStatusDraft,
	}

	if err := h.db.Create(&spot).Error; err != nil {
		httperr.Internal(c, "spot_create_failed", "Could not create spot.")
		return
	}

	httpresp.Created(c, spot)
}

func (h *SpotHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var spots []models.Spot
	if err := h.db.
		Preload("Availabilities").
		Where("host_id = ?", userID).
		Order("created_at").
		Find(&spots).Error; err != nil {

		httperr.Internal(c, "spot_list_failed", "Could not list spots.")
		return
	}

	httpresp.List(c, spots)
}

func (h *SpotHandler) Get(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var spot models.Spot
	if err := h.db.Preload("Availabilities").First(&spot, id).Error; err != nil {
		httperr.NotFound(c, "spot_not_found", "Spot not found.")
		return
	}

	// Drafts are only visible to their owner.
	if spot.Status != models.SpotStatusPublished {
		userID, ok := c.Get(middleware.ContextUserID)
		if !ok || userID.(uint) != spot.HostID {
			httperr.NotFound(c, "spot_not_found", "Spot not found.")
			return
		}
	}

	httpresp.OK(c, spot)
}

func (h *SpotHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var spot models.Spot
	if err := h.db.Where("id = ? AND host_id = ?", id, userID).First(&spot).Error; err != nil {
		httperr.NotFound(c, "spot_not_found", "Spot not found.")
		return
	}

	var req UpdateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Title != nil {
		spot.Title = *req.Title
	}
	if req.Description != nil {
		spot.Description = *req.Description
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate <= 0 {
			httperr.BadRequest(c, "invalid_rate", "Hourly rate must be positive.")
			return
		}
		spot.HourlyRate = *req.HourlyRate
	}

	// Relocation re-resolves the timezone.
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude != nil {
			spot.Latitude = *req.Latitude
		}
		if req.Longitude != nil {
			spot.Longitude = *req.Longitude
		}
		spot.Timezone = h.resolver.TimezoneFor(c.Request.Context(), spot.Latitude, spot.Longitude)
	}

	if err := h.db.Save(&spot).Error; err != nil {
		httperr.Internal(c, "spot_update_failed", "Could not update spot.")
		return
	}

	httpresp.OK(c, spot)
}

func (h *SpotHandler) Publish(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var spot models.Spot
	if err := h.db.Where("id = ? AND host_id = ?", id, userID).First(&spot).Error; err != nil {
		httperr.NotFound(c, "spot_not_found", "Spot not found.")
		return
	}

	spot.Status = models.SpotStatusPublished
	if err := h.db.Save(&spot).Error; err != nil {
		httperr.Internal(c, "spot_update_failed", "Could not publish spot.")
		return
	}

	httpresp.OK(c, spot)
}

const maxPhotoBytes = 10 << 20

func (h *SpotHandler) UploadPhoto(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var spot models.Spot
	if err := h.db.Where("id = ? AND host_id = ?", id, userID).First(&spot).Error; err != nil {
		httperr.NotFound(c, "spot_not_found", "Spot not found.")
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "Multipart field 'photo' is required.")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Photo exceeds the 10MB limit.")
		return
	}

	url, err := h.storage.UploadSpotPhoto(c.Request.Context(), spot.ID, file)
	if err != nil {
		httperr.Internal(c, "photo_upload_failed", "Could not store photo.")
		return
	}

	spot.PhotoURL = url
	if err := h.db.Save(&spot).Error; err != nil {
		httperr.Internal(c, "spot_update_failed", "Could not save photo URL.")
		return
	}

	httpresp.OK(c, gin.H{"photo_url": url})
}

func (h *SpotHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var spot models.Spot
	if err := h.db.Where("id = ? AND host_id = ?", id, userID).First(&spot).Error; err != nil {
		httperr.NotFound(c, "spot_not_found", "Spot not found.")
		return
	}

	// Live bookings pin the spot.
	var active int64
	h.db.Model(&models.Booking{}).
		Where("spot_id = ? AND status IN ?", spot.ID,
			[]string{"request-pending", "payment-pending", "accepted"}).
		Count(&active)
	if active > 0 {
		httperr.Conflict(c, "spot_has_bookings", "The spot still has active bookings.")
		return
	}

	if spot.PhotoURL != "" {
		_ = h.storage.DeleteSpotPhoto(c.Request.Context(), spot.ID)
	}

	if err := h.db.Delete(&spot).Error; err != nil {
		httperr.Internal(c, "spot_delete_failed", "Could not delete spot.")
		return
	}

	c.Status(http.StatusNoContent)
}
