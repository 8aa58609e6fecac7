package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/parqio/spot-booking/internal/domain/booking"
	"github.com/parqio/spot-booking/internal/dto"
	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/httpresp"
	"github.com/parqio/spot-booking/internal/middleware"
	ucbooking "github.com/parqio/spot-booking/internal/usecase/booking"
)

type BookingHandler struct {
	repo domain.Repository

	create    *ucbooking.CreateBooking
	accept    *ucbooking.AcceptRequest
	deny      *ucbooking.DenyRequest
	cancel    *ucbooking.CancelBooking
	confirm   *ucbooking.ConfirmPayment
	check     *ucbooking.CheckInOut
	requestTC *ucbooking.RequestTimeChange
	resolveTC *ucbooking.ResolveTimeChange
	blocked   *ucbooking.BlockedDates
	balance   *ucbooking.HostBalance
}

func NewBookingHandler(
	repo domain.Repository,
	create *ucbooking.CreateBooking,
	accept *ucbooking.AcceptRequest,
	deny *ucbooking.DenyRequest,
	cancel *ucbooking.CancelBooking,
	confirm *ucbooking.ConfirmPayment,
	check *ucbooking.CheckInOut,
	requestTC *ucbooking.RequestTimeChange,
	resolveTC *ucbooking.ResolveTimeChange,
	blocked *ucbooking.BlockedDates,
	balance *ucbooking.HostBalance,
) *BookingHandler {
	return &BookingHandler{
		repo:      repo,
		create:    create,
		accept:    accept,
		deny:      deny,
		cancel:    cancel,
		confirm:   confirm,
		check:     check,
		requestTC: requestTC,
		resolveTC: resolveTC,
		blocked:   blocked,
		balance:   balance,
	}
}

// --------- Requests ---------

type CreateBookingRequest struct {
	SpotID    uint   `json:"spot_id" binding:"required"`
	VehicleID uint   `json:"vehicle_id" binding:"required"`
	Day       string `json:"day" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`

	Type        string  `json:"type" binding:"required"`
	GrossAmount float64 `json:"gross_amount" binding:"required,gt=0"`
}

type TimeChangeRequest struct {
	Day       string `json:"day" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type CheckRequest struct {
	Actor     string `json:"actor" binding:"required"`
	Direction string `json:"direction" binding:"required"`
}

// --------- Booking lifecycle ---------

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucbooking.CreateBookingInput{
		ClientID:    userID,
		SpotID:      req.SpotID,
		VehicleID:   req.VehicleID,
		Day:         req.Day,
		StartDate:   req.StartDate,
		StartTime:   req.StartTime,
		EndDate:     req.EndDate,
		EndTime:     req.EndTime,
		Type:        req.Type,
		GrossAmount: req.GrossAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *BookingHandler) Accept(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	res, err := h.accept.Execute(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *BookingHandler) Deny(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	if err := h.deny.Execute(c.Request.Context(), uint(id), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	res, err := h.cancel.Execute(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	b, err := h.confirm.Execute(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Check(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.check.Execute(c.Request.Context(), uint(id), userID, req.Actor, req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, b)
}

// --------- Time changes ---------

func (h *BookingHandler) RequestTimeChange(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("id"))

	var req TimeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	tc, err := h.requestTC.Execute(c.Request.Context(), ucbooking.RequestTimeChangeInput{
		BookingID:    uint(id),
		ClientID:     userID,
		NewDay:       req.Day,
		NewStartDate: req.StartDate,
		NewStartTime: req.StartTime,
		NewEndDate:   req.EndDate,
		NewEndTime:   req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, tc)
}

func (h *BookingHandler) AcceptTimeChange(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("changeId"))

	b, err := h.resolveTC.Accept(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) RejectTimeChange(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, _ := strconv.Atoi(c.Param("changeId"))

	tc, err := h.resolveTC.Reject(c.Request.Context(), uint(id), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, tc)
}

// --------- Projections / listings ---------

func (h *BookingHandler) BlockedDates(c *gin.Context) {
	spotID, _ := strconv.Atoi(c.Param("id"))

	bType := c.DefaultQuery("type", string(domain.TypeNormal))
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil || duration <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be a positive minute count.")
		return
	}

	res, err := h.blocked.Execute(c.Request.Context(), ucbooking.BlockedDatesInput{
		SpotID:          uint(spotID),
		Type:            bType,
		DurationMinutes: duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.repo.ListBookingsForClient(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "booking_list_failed", "Could not list bookings.")
		return
	}
	httpresp.List(c, dto.FromBookings(bookings))
}

func (h *BookingHandler) ListHosted(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	bookings, err := h.repo.ListBookingsForHost(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "booking_list_failed", "Could not list bookings.")
		return
	}
	httpresp.List(c, dto.FromBookings(bookings))
}

func (h *BookingHandler) Balance(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	res, err := h.balance.Execute(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, res)
}
