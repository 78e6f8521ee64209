package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Status handles GET /api/status, the liveness and feature summary.
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "BankAPI Server",
		"features": []string{
			"PushBullet WebSocket (은행 알림 수신)",
			"로컬 검증(계좌이체)",
			"웹사이트 충전 요청",
			"Prometheus metrics",
		},
	})
}
