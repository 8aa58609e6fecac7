package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/parqio/spot-booking/internal/httperr"
	"github.com/parqio/spot-booking/internal/middleware"
	"github.com/parqio/spot-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":                   user.ID,
			"name":                 user.Name,
			"email":                user.Email,
			"phone":                user.Phone,
			"role":                 user.Role,
			"allows_notifications": user.AllowsNotifications,
		},
	})
}

type UpdateMeRequest struct {
	Name                *string `json:"name"`
	Phone               *string `json:"phone"`
	AllowsNotifications *bool   `json:"allows_notifications"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.AllowsNotifications != nil {
		user.AllowsNotifications = *req.AllowsNotifications
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "update_failed", "Could not update profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":                   user.ID,
		"name":                 user.Name,
		"phone":                user.Phone,
		"allows_notifications": user.AllowsNotifications,
	}})
}

type PushTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken appends a device token to the user's token list. Tokens
// are stored as a JSON array; duplicates are collapsed.
func (h *MeHandler) RegisterPushToken(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var tokens []string
	if user.PushTokens != "" {
		_ = json.Unmarshal([]byte(user.PushTokens), &tokens)
	}
	for _, t := range tokens {
		if t == req.Token {
			c.JSON(http.StatusOK, gin.H{"tokens": len(tokens)})
			return
		}
	}
	tokens = append(tokens, req.Token)

	raw, _ := json.Marshal(tokens)
	user.PushTokens = string(raw)

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "update_failed", "Could not register token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": len(tokens)})
}
