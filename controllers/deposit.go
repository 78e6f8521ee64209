package controllers

import (
	"errors"
	"net/http"

	"github.com/ogcash/bankapi/middleware"
	"github.com/ogcash/bankapi/models"
	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
)

type DepositController struct {
	deposits   *services.DepositService
	reconciler *services.Reconciler
	adminKey   string
}

func NewDepositController(deposits *services.DepositService, reconciler *services.Reconciler, adminKey string) *DepositController {
	return &DepositController{deposits: deposits, reconciler: reconciler, adminKey: adminKey}
}

// Create handles POST /api/deposit-request (public).
func (dc *DepositController) Create(c *gin.Context) {
	var input services.CreateDepositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	receipt, err := dc.deposits.Create(input)
	if err != nil {
		if services.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"requestId":         receipt.RequestID,
		"deadlineTimestamp": receipt.DeadlineTimestamp,
		"amount":            receipt.Amount,
		"account":           receipt.Account,
	})
}

// requestJSON shapes a deposit request for a response, redacting the email
// for non-admin callers.
func requestJSON(r *models.DepositRequest, admin bool) gin.H {
	out := gin.H{
		"requestId":         r.RequestID,
		"playerName":        r.PlayerName,
		"depositorName":     r.DepositorName,
		"amount":            r.Amount,
		"discordUserId":     r.DiscordUserID,
		"createdAt":         r.CreatedAt,
		"deadlineTimestamp": r.DeadlineTimestamp,
		"status":            r.Status,
		"minecraftName":     r.MinecraftName,
	}
	if admin {
		out["email"] = r.Email
	}
	return out
}

// Get handles GET /api/deposit-request/:id (public, email redacted).
func (dc *DepositController) Get(c *gin.Context) {
	request, err := dc.deposits.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "충전 요청을 찾을 수 없습니다."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requestJSON(request, middleware.IsAdmin(c, dc.adminKey)))
}

// List handles GET /api/deposit-requests?status= (admin).
func (dc *DepositController) List(c *gin.Context) {
	requests, err := dc.deposits.List(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	admin := middleware.IsAdmin(c, dc.adminKey)
	out := make([]gin.H, 0, len(requests))
	for i := range requests {
		out = append(out, requestJSON(&requests[i], admin))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "requests": out})
}

// Confirm handles POST /api/deposit-confirm (admin). This is the only
// synchronous, caller-observable crediting path.
func (dc *DepositController) Confirm(c *gin.Context) {
	var payload struct {
		RequestID string `json:"requestId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.RequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requestId가 필요합니다."})
		return
	}

	result, err := dc.reconciler.ConfirmDepositRequest(payload.RequestID)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "충전 요청을 찾을 수 없습니다."})
	case errors.Is(err, services.ErrAlreadyProcessed):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "이미 처리된 요청입니다."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "웹사이트 충전이 완료되었습니다.",
			"requestId":  result.RequestID,
			"playerName": result.PlayerName,
			"amount":     result.Amount,
			"newBalance": result.NewBalance,
		})
	}
}
