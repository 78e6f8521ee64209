package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogcash/bankapi/config"
	"github.com/ogcash/bankapi/controllers"
	"github.com/ogcash/bankapi/metrics"
	"github.com/ogcash/bankapi/middleware"
	"github.com/ogcash/bankapi/routes"
	"github.com/ogcash/bankapi/services"
	"github.com/ogcash/bankapi/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const relayStreamURL = "wss://stream.pushbullet.com/websocket/"

func main() {
	env := config.LoadEnv()
	defer logger.Sync()

	db := config.SetupDatabase(env)
	m := metrics.New()

	// Wire the core explicitly; services own their dependencies instead of
	// reaching for package globals.
	configService := services.NewConfigService(db, env)
	templateService := services.NewTemplateService(db)
	if err := configService.EnsureDefaults(); err != nil {
		logger.Errorf("[Init] config defaults: %v", err)
	}
	if err := templateService.EnsureDefaults(); err != nil {
		logger.Errorf("[Init] template defaults: %v", err)
	}

	mailer := services.NewMailNotifier(env.MailAPIURL, templateService)
	transferService := services.NewTransferService(db, env.PublicBaseURL)
	reconciler := services.NewReconciler(db, transferService, mailer, configService, m)
	depositService := services.NewDepositService(db, configService, env.DepositDeadlineMinutes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener := services.NewListener(relayStreamURL+env.BankPin, env.BankName, reconciler, m)
	go listener.Run(ctx)

	sched, err := services.StartMetricsScheduler(depositService, m)
	if err != nil {
		logger.Errorf("[Init] metrics scheduler: %v", err)
	} else {
		defer func() { _ = sched.Shutdown() }()
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{env.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.AdminKeyHeader, "X-Admin-Actor"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(router, routes.Controllers{
		Config:    controllers.NewConfigController(configService, env.AdminActor),
		Templates: controllers.NewTemplateController(templateService),
		Deposits:  controllers.NewDepositController(depositService, reconciler, env.AdminAPIKey),
		Transfers: controllers.NewTransferController(transferService),
		Ledger:    controllers.NewLedgerController(reconciler),
		AdminKey:  env.AdminAPIKey,
	})

	logger.Infof("[Init] BankAPI server starting on port %s", env.Port)
	if err := router.Run(":" + env.Port); err != nil {
		logger.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
