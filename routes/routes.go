package routes

import (
	"github.com/ogcash/bankapi/controllers"
	"github.com/ogcash/bankapi/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers bundles everything the route table needs.
type Controllers struct {
	Config    *controllers.ConfigController
	Templates *controllers.TemplateController
	Deposits  *controllers.DepositController
	Transfers *controllers.TransferController
	Ledger    *controllers.LedgerController
	AdminKey  string
}

func SetupRoutes(r *gin.Engine, c Controllers) {
	admin := middleware.AdminOnly(c.AdminKey)
	api := r.Group("/api")

	// ----------------------
	// Config & audit
	// ----------------------
	api.GET("/config", c.Config.GetConfig)
	api.POST("/config", admin, c.Config.UpdateConfig)
	api.GET("/config-logs", admin, c.Config.Logs)

	// ----------------------
	// Email templates
	// ----------------------
	api.GET("/email-templates", admin, c.Templates.List)
	api.POST("/email-templates", admin, c.Templates.Upsert)

	// ----------------------
	// Deposit requests
	// ----------------------
	api.POST("/deposit-request", c.Deposits.Create)
	api.GET("/deposit-request/:id", c.Deposits.Get)
	api.GET("/deposit-requests", admin, c.Deposits.List)
	api.POST("/deposit-confirm", admin, c.Deposits.Confirm)

	// ----------------------
	// Legacy transfer records
	// ----------------------
	api.POST("/transfer", c.Transfers.Process)
	api.GET("/transfers", c.Transfers.List)
	api.POST("/confirm-transfer", c.Transfers.Confirm)
	r.GET("/transfer/:id", c.Transfers.Get)

	// ----------------------
	// Introspection
	// ----------------------
	api.GET("/status", controllers.Status)
	api.GET("/db/charges", c.Ledger.Charges)
	api.GET("/db/users", c.Ledger.Accounts)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
