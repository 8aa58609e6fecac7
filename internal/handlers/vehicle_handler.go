package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/httpresp"
	"github.com/parqio/spot-booking/internal/middleware"
	"github.com/parqio/spot-booking/internal/models"
)

type VehicleHandler struct {
	db *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{db: db}
}

type VehicleRequest struct {
	Plate string `json:"plate" binding:"required"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Color string `json:"color"`
}

func (h *VehicleHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var vehicles []models.Vehicle
	if err := h.db.Where("user_id = ?", userID).Order("created_at").Find(&vehicles).Error; err != nil {
		httperr.Internal(c, "vehicle_list_failed", "Could not list vehicles.")
		return
	}

	httpresp.List(c, vehicles)
}

func (h *VehicleHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	v := models.Vehicle{
		UserID: userID,
		Plate:  req.Plate,
		Make:   req.Make,
		Model:  req.Model,
		Color:  req.Color,
	}
	if err := h.db.Create(&v).Error; err != nil {
		httperr.Internal(c, "vehicle_create_failed", "Could not create vehicle.")
		return
	}

	httpresp.Created(c, v)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var v models.Vehicle
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&v).Error; err != nil {
		httperr.NotFound(c, "vehicle_not_found", "Vehicle not found.")
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	v.Plate = req.Plate
	v.Make = req.Make
	v.Model = req.Model
	v.Color = req.Color

	if err := h.db.Save(&v).Error; err != nil {
		httperr.Internal(c, "vehicle_update_failed", "Could not update vehicle.")
		return
	}

	httpresp.OK(c, v)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	res := h.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Vehicle{})
	if res.Error != nil {
		httperr.Internal(c, "vehicle_delete_failed", "Could not delete vehicle.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "vehicle_not_found", "Vehicle not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
