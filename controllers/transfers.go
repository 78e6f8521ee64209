package controllers

import (
	"errors"
	"net/http"

	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
)

type TransferController struct {
	transfers *services.TransferService
}

func NewTransferController(transfers *services.TransferService) *TransferController {
	return &TransferController{transfers: transfers}
}

// Process handles POST /api/transfer, the legacy manual transfer entry point.
func (tc *TransferController) Process(c *gin.Context) {
	var payload struct {
		BankName   string `json:"bankName"`
		PlayerName string `json:"playerName"`
		Amount     int64  `json:"amount"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.BankName == "" || payload.PlayerName == "" || payload.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "필수 필드가 누락되었습니다."})
		return
	}

	ok := tc.transfers.Process("manual", payload.PlayerName, payload.BankName, payload.Amount)
	c.JSON(http.StatusOK, gin.H{"success": ok, "message": "계좌이체 처리 완료"})
}

// List handles GET /api/transfers.
func (tc *TransferController) List(c *gin.Context) {
	transfers, err := tc.transfers.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(transfers), "transfers": transfers})
}

// Get handles GET /transfer/:id.
func (tc *TransferController) Get(c *gin.Context) {
	transfer, err := tc.transfers.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "계좌이체 기록을 찾을 수 없습니다."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transfer)
}

// Confirm handles POST /api/confirm-transfer.
func (tc *TransferController) Confirm(c *gin.Context) {
	var payload struct {
		TransferID string `json:"transferId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.TransferID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "계좌이체 ID가 필요합니다."})
		return
	}

	transfer, err := tc.transfers.Confirm(payload.TransferID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "계좌이체 기록을 찾을 수 없습니다."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "계좌이체가 확인되었습니다.",
		"transferId": transfer.ID,
		"playerName": transfer.PlayerName,
		"amount":     transfer.Amount,
	})
}
