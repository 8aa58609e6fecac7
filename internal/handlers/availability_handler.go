package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/httpresp"
	"github.com/parqio/spot-booking/internal/middleware"
	ucavailability "github.com/parqio/spot-booking/internal/usecase/availability"
)

type AvailabilityHandler struct {
	repo   domain.Repository
	add    *ucavailability.AddWindow
	update *ucavailability.UpdateWindow
	remove *ucavailability.RemoveWindow
}

func NewAvailabilityHandler(
	repo domain.Repository,
	add *ucavailability.AddWindow,
	update *ucavailability.UpdateWindow,
	remove *ucavailability.RemoveWindow,
) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo, add: add, update: update, remove: remove}
}

// --------- Requests ---------

type AddWindowRequest struct {
	Day         string   `json:"day" binding:"required"`
	SimilarDays []string `json:"similar_days"`
	StartTime   string   `json:"start_time" binding:"required"`
	EndTime     string   `json:"end_time" binding:"required"`

	// "false" (conflict), "true" (replace) or "ignore".
	OverlapPolicy string `json:"overlap_policy"`
}

type UpdateWindowRequest struct {
	Day           string `json:"day" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	OverlapPolicy string `json:"overlap_policy"`
}

// --------- Handlers ---------

func (h *AvailabilityHandler) List(c *gin.Context) {
	spotID, _ := strconv.Atoi(c.Param("id"))

	windows, err := h.repo.ListWindows(c.Request.Context(), uint(spotID))
	if err != nil {
		httperr.Internal(c, "availability_list_failed", "Could not list windows.")
		return
	}

	httpresp.List(c, windows)
}

func (h *AvailabilityHandler) Add(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	spotID, _ := strconv.Atoi(c.Param("id"))

	var req AddWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.OverlapPolicy == "" {
		req.OverlapPolicy = ucavailability.PolicyConflict
	}

	res, err := h.add.Execute(c.Request.Context(), ucavailability.AddWindowInput{
		SpotID:        uint(spotID),
		HostID:        userID,
		Day:           req.Day,
		SimilarDays:   req.SimilarDays,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OverlapPolicy: req.OverlapPolicy,
	})
	if err != nil {
		if httperr.IsBusiness(err, "availability_conflict") && res != nil {
			httperr.WriteDetails(c, http.StatusConflict, "availability_conflict",
				"The window overlaps an existing one.", res.Conflicts)
			return
		}
		respondError(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	spotID, _ := strconv.Atoi(c.Param("id"))
	windowID, _ := strconv.Atoi(c.Param("windowId"))

	var req UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.update.Execute(c.Request.Context(), ucavailability.UpdateWindowInput{
		WindowID:      uint(windowID),
		SpotID:        uint(spotID),
		HostID:        userID,
		Day:           req.Day,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		OverlapPolicy: req.OverlapPolicy,
	})
	if err != nil {
		if httperr.IsBusiness(err, "availability_conflict") && res != nil {
			httperr.WriteDetails(c, http.StatusConflict, "availability_conflict",
				"The window overlaps an existing one.", res.Conflicts)
			return
		}
		respondError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AvailabilityHandler) Remove(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	spotID, _ := strconv.Atoi(c.Param("id"))
	windowID, _ := strconv.Atoi(c.Param("windowId"))

	if err := h.remove.Execute(c.Request.Context(), uint(windowID), uint(spotID), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
