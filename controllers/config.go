package controllers

import (
	"net/http"
	"strconv"

	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
)

type ConfigController struct {
	cfg          *services.ConfigService
	defaultActor string
}

func NewConfigController(cfg *services.ConfigService, defaultActor string) *ConfigController {
	return &ConfigController{cfg: cfg, defaultActor: defaultActor}
}

// GetConfig returns the current policy and settlement settings (public).
func (cc *ConfigController) GetConfig(c *gin.Context) {
	settings, err := cc.cfg.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateConfig validates and persists new settings (admin).
func (cc *ConfigController) UpdateConfig(c *gin.Context) {
	var payload services.Settings
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Audit entries name the caller from the header, falling back to the
	// configured actor when the admin client does not identify itself.
	actor := c.GetHeader("X-Admin-Actor")
	if actor == "" {
		actor = cc.defaultActor
	}

	updated, err := cc.cfg.Update(actor, payload)
	if err != nil {
		if services.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Logs lists audit entries newest first (admin).
func (cc *ConfigController) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := cc.cfg.Logs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}
