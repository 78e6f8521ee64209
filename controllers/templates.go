package controllers

import (
	"net/http"

	"github.com/ogcash/bankapi/services"

	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	templates *services.TemplateService
}

func NewTemplateController(templates *services.TemplateService) *TemplateController {
	return &TemplateController{templates: templates}
}

// List returns all mail templates (admin).
func (tc *TemplateController) List(c *gin.Context) {
	templates, err := tc.templates.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}

// Upsert creates or replaces a template by key (admin).
func (tc *TemplateController) Upsert(c *gin.Context) {
	var payload struct {
		Key     string `json:"key"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := tc.templates.Upsert(payload.Key, payload.Subject, payload.Body); err != nil {
		if services.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	templates, err := tc.templates.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "templates": templates})
}
