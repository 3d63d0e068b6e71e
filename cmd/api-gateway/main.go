package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/careops-au/ndis-ops-api/api/swagger"
	"github.com/careops-au/ndis-ops-api/internal/allocation"
	"github.com/careops-au/ndis-ops-api/internal/bankfile"
	"github.com/careops-au/ndis-ops-api/internal/handler"
	"github.com/careops-au/ndis-ops-api/internal/middleware"
	"github.com/careops-au/ndis-ops-api/internal/repository"
	"github.com/careops-au/ndis-ops-api/internal/schads"
	"github.com/careops-au/ndis-ops-api/internal/service"
	"github.com/careops-au/ndis-ops-api/pkg/cache"
	"github.com/careops-au/ndis-ops-api/pkg/config"
	"github.com/careops-au/ndis-ops-api/pkg/database"
	"github.com/careops-au/ndis-ops-api/pkg/jobs"
	"github.com/careops-au/ndis-ops-api/pkg/logger"
	corsmiddleware "github.com/careops-au/ndis-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/careops-au/ndis-ops-api/pkg/middleware/requestid"
	"github.com/careops-au/ndis-ops-api/pkg/storage"
)

// @title NDIS Ops API
// @version 1.0.0
// @description Rostering, allocation and SCHADS payroll for NDIS providers
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, 0, logr, false)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Payroll.RateCacheTTL, logr, true)
	}

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	rateRepo := repository.NewAwardRateRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	scoreRepo := repository.NewAllocationScoreRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	timesheetRepo := repository.NewTimesheetRepository(db)
	payRunRepo := repository.NewPayRunRepository(db)
	unavailabilityRepo := repository.NewUnavailabilityRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Domain engines.
	calc := schads.NewCalculator(schads.NewBracketTax())
	engine := allocation.NewEngine(allocation.DefaultWeights(), nil, nil, cfg.Allocation.MaxDistanceKm)
	bank := bankfile.NewWriter(bankfile.Config{
		InstitutionCode:  cfg.Bank.InstitutionCode,
		UserName:         cfg.Bank.UserName,
		UserID:           cfg.Bank.UserID,
		Description:      cfg.Bank.Description,
		LodgementBSB:     cfg.Bank.LodgementBSB,
		LodgementAccount: cfg.Bank.LodgementAccount,
		RemitterName:     cfg.Bank.RemitterName,
	})

	// Services.
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "ndis-ops-api",
	})
	staffSvc := service.NewStaffService(staffRepo, validate, logr)
	participantSvc := service.NewParticipantService(participantRepo, validate, logr)
	payrollSvc := service.NewPayrollService(staffRepo, rateRepo, cacheSvc, calc, validate, logr, cfg.Payroll.RateCacheTTL)
	rateSvc := service.NewAwardRateService(rateRepo, payrollSvc, logr)
	payRunSvc := service.NewPayRunService(payRunRepo, timesheetRepo, staffRepo, payrollSvc, calc, bank, store, signer, metricsSvc, validate, logr)
	allocationSvc := service.NewAllocationService(shiftRepo, staffRepo, participantRepo, scoreRepo, offerRepo, engine, metricsSvc, logr, cfg.Allocation.OfferFanout, cfg.Allocation.OfferTTL)
	attendanceSvc := service.NewAttendanceService(shiftRepo, participantRepo, attendanceRepo, timesheetRepo, metricsSvc, logr, cfg.Allocation.GeoFenceRadiusKm, cfg.Payroll.PublicHolidays)
	shiftSvc := service.NewShiftService(shiftRepo, unavailabilityRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, metricsSvc, logr, cfg.Allocation.DashboardTTL)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	staffHandler := handler.NewStaffHandler(staffSvc)
	participantHandler := handler.NewParticipantHandler(participantSvc)
	rateHandler := handler.NewAwardRateHandler(rateSvc)
	payrollHandler := handler.NewPayrollHandler(payrollSvc)
	payRunHandler := handler.NewPayRunHandler(payRunSvc)
	shiftHandler := handler.NewShiftHandler(shiftSvc, allocationSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeDeps{
		auth:        authSvc,
		authH:       authHandler,
		staff:       staffHandler,
		participant: participantHandler,
		rates:       rateHandler,
		payroll:     payrollHandler,
		payruns:     payRunHandler,
		shifts:      shiftHandler,
		attendance:  attendanceHandler,
		dashboard:   dashboardHandler,
	})

	// Background sweep that auto-declines expired offers.
	sweepQueue := jobs.NewQueue("offer-expiry", func(ctx context.Context, _ jobs.Job) error {
		_, err := allocationSvc.ExpireOffers(ctx)
		return err
	}, jobs.QueueConfig{Workers: 1, Logger: logr})

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepQueue.Start(rootCtx)
	defer sweepQueue.Stop()
	go func() {
		ticker := time.NewTicker(cfg.Allocation.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				if err := sweepQueue.Enqueue(jobs.Job{Type: "expire-offers"}); err != nil {
					logr.Warn("failed to enqueue offer expiry sweep", zap.Error(err))
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
