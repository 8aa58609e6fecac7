package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/httpresp"
	"github.com/parqio/spot-booking/internal/middleware"
	ucpayout "github.com/parqio/spot-booking/internal/usecase/payout"
)

type PayoutHandler struct {
	request *ucpayout.RequestPayout
	list    *ucpayout.ListPayouts
}

func NewPayoutHandler(request *ucpayout.RequestPayout, list *ucpayout.ListPayouts) *PayoutHandler {
	return &PayoutHandler{request: request, list: list}
}

type PayoutRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (h *PayoutHandler) Request(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	p, err := h.request.Execute(c.Request.Context(), ucpayout.RequestPayoutInput{
		HostID: userID,
		Amount: req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, p)
}

func (h *PayoutHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	payouts, err := h.list.Execute(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, payouts)
}
