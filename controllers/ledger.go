package controllers

import (
	"net/http"

	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
)

type LedgerController struct {
	reconciler *services.Reconciler
}

func NewLedgerController(reconciler *services.Reconciler) *LedgerController {
	return &LedgerController{reconciler: reconciler}
}

// Charges handles GET /api/db/charges with optional playerName/method filters.
func (lc *LedgerController) Charges(c *gin.Context) {
	charges, err := lc.reconciler.Charges(c.Query("playerName"), c.Query("method"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(charges), "charges": charges})
}

// Accounts handles GET /api/db/users.
func (lc *LedgerController) Accounts(c *gin.Context) {
	accounts, err := lc.reconciler.Accounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, gin.H{
			"siteId":     a.SiteID,
			"bankName":   a.BankName,
			"playerName": a.PlayerName,
			"createdAt":  a.CreatedAt,
			"money":      a.Money,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "users": out})
}
