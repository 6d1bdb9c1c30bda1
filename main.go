package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kariqs/mealplan-api/cache"
	"github.com/Kariqs/mealplan-api/controllers"
	"github.com/Kariqs/mealplan-api/initializers"
	"github.com/Kariqs/mealplan-api/jobs"
	"github.com/Kariqs/mealplan-api/metrics"
	"github.com/Kariqs/mealplan-api/middlewares"
	"github.com/Kariqs/mealplan-api/payments"
	"github.com/Kariqs/mealplan-api/pricing"
	"github.com/Kariqs/mealplan-api/repositories"
	"github.com/Kariqs/mealplan-api/routes"
	"github.com/Kariqs/mealplan-api/services"
	"github.com/Kariqs/mealplan-api/storage"
	"github.com/Kariqs/mealplan-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := initializers.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := initializers.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg initializers.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	table, err := pricing.LoadTable(cfg.PricingFile)
	if err != nil {
		return err
	}

	checks := map[string]controllers.HealthCheck{}

	var stores repositories.Stores
	switch cfg.StorageDriver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		stores = repositories.NewMemoryStores()
	default:
		db, err := initializers.ConnectToDB(cfg.DBDriver, cfg.DBURL, log)
		if err != nil {
			return err
		}
		if err := initializers.SyncDatabase(db, log); err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		checks["database"] = sqlDB.PingContext
		stores = repositories.NewGormStores(db)
	}

	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb, err := initializers.ConnectToRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		cacheStore = cache.NewRedisStore(rdb, "mealplan:")
	}
	appCache := cache.New(cacheStore, cfg.CacheTTL, log)

	var mailer utils.Mailer = utils.LogMailer{Log: log}
	if cfg.FromEmail != "" && cfg.SMTPAddress != "" {
		mailer = utils.NewSMTPMailer(utils.SMTPConfig{
			From:     cfg.FromEmail,
			Password: cfg.FromEmailPassword,
			Host:     cfg.FromEmailSMTP,
			Address:  cfg.SMTPAddress,
		})
	}

	gateway := payments.NewClient(payments.Config{
		BaseURL:       cfg.PaymobBaseURL,
		APIKey:        cfg.PaymobAPIKey,
		IntegrationID: cfg.PaymobIntegrationID,
		IframeID:      cfg.PaymobIframeID,
		Timeout:       cfg.PaymobTimeout,
		RetryCount:    cfg.PaymobRetryCount,
	})

	var uploader storage.ImageUploader
	if cfg.S3Bucket != "" {
		s3Uploader, err := storage.NewS3Uploader(ctx, cfg.S3Bucket)
		if err != nil {
			log.WithError(err).Warn("meal image uploads disabled")
		} else {
			uploader = s3Uploader
		}
	}

	accounts := services.NewAccountService(services.AccountConfig{
		JWTSecret:        cfg.JWTSecret,
		TokenTTL:         cfg.TokenTTL,
		FrontendURL:      cfg.FrontendURL,
		ReferralCodes:    cfg.ReferralCodeList(),
		ReferralRequired: cfg.ReferralRequired,
	}, stores, mailer, log)
	menu := services.NewMenuService(stores, appCache)
	neighborhoods := services.NewNeighborhoodService(stores.Neighborhoods, appCache)
	orders := services.NewOrderService(services.OrderServiceConfig{
		Stores:  stores,
		Cache:   appCache,
		Pricing: table,
		Gateway: gateway,
		Mailer:  mailer,
		Log:     log,
	})

	seeded, err := accounts.SeedAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if seeded {
		log.WithField("email", cfg.AdminEmail).Info("seeded first admin")
	}

	scheduler, err := jobs.NewScheduler(cfg.ExpireSchedule, orders, log)
	if err != nil {
		return err
	}
	scheduler.Start()

	limiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	limiter.StartCleanup(time.Minute, ctx.Done())

	gin.SetMode(cfg.GinMode)
	server := gin.New()
	server.Use(
		gin.Recovery(),
		middlewares.RequestLogger(log),
		metrics.Instrument(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins(),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middlewares.Authenticate(cfg.JWTSecret),
	)

	routes.Register(server, routes.Handlers{
		Auth: controllers.NewAuthController(accounts, controllers.CookieConfig{
			Secure: cfg.GinMode == gin.ReleaseMode,
			TTL:    cfg.TokenTTL,
		}),
		Session:       controllers.NewSessionController(accounts),
		Pricing:       controllers.NewPricingController(table),
		Menu:          controllers.NewMenuController(menu, uploader, cfg.S3Prefix),
		Orders:        controllers.NewOrderController(orders),
		Payments:      controllers.NewPaymentController(orders, cfg.PaymobHMACSecret, log),
		Neighborhoods: controllers.NewNeighborhoodController(neighborhoods, accounts),
		Health:        controllers.NewHealthController(checks),
		Sessions:      accounts,
		AuthLimiter:   limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}
