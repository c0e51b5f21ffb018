package app

import (
	"context"
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/attendance"
	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/auth"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/masteremployee"
	"github.com/Jstali/employee-onboarding-sub000/internal/messaging/kafka"
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"
	"github.com/Jstali/employee-onboarding-sub000/internal/onboarding"
	"github.com/Jstali/employee-onboarding-sub000/internal/rbac"
	"github.com/Jstali/employee-onboarding-sub000/internal/rbac/infra"
	"github.com/Jstali/employee-onboarding-sub000/internal/search"
	"github.com/Jstali/employee-onboarding-sub000/internal/session"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/counter"
	"github.com/Jstali/employee-onboarding-sub000/internal/storage"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	inf *infra,
) (*audit.SystemLogger, error) {
	logger := zap.L()
	db, gormDB, rdb := inf.db, inf.gormDB, inf.rdb

	// --- Infrastructure adapters ---
	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	mailer := notification.NewSMTPMailer(cfg.SMTP, logger)
	outboxRepo := kafka.NewOutboxRepository(db)
	notifier := notification.NewNotifier(cfg.Notification.Mode, mailer, outboxRepo, cfg.SMTP.Timeout, logger)
	sessions := session.NewRedisStore(rdb, cfg.Session.TTL, logger)
	index := search.New(cfg.Search, logger)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies(), rbac.DefaultInheritance())
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	masterRepo := masteremployee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	onboardingRepo := onboarding.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)

	// --- Services ---
	auditService := audit.NewService(auditRepo, logger)
	userService := user.NewService(db, userRepo, auditService, notifier, sessions, objects, cfg.Notification.AppURL, logger)
	authService := auth.NewService(userRepo, sessions, rbacService, auditService, logger)
	masterService := masteremployee.NewService(db, masterRepo, userRepo, counterRepo, auditService, rdb, index, logger)
	onboardingService := onboarding.NewService(
		db, onboardingRepo, userRepo, objects, auditService, notifier,
		cfg.Storage.MaxUploadSize, cfg.Notification.AppURL, logger,
	)
	attendanceService := attendance.NewService(db, attendanceRepo, userRepo, auditService, attendance.Options{
		Location:     cfg.App.Location(),
		BackdateDays: cfg.Attendance.BackdateDays,
	}, logger)

	if err := userService.EnsureDefaultHR(ctx, cfg.Bootstrap, masterService); err != nil {
		return nil, err
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure: cfg.App.IsProduction(),
		TTL:    cfg.Session.TTL,
	}, logger)
	userHandler := user.NewHandler(userService, logger)
	masterHandler := masteremployee.NewHandler(masterService, logger)
	onboardingHandler := onboarding.NewHandler(onboardingService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	auditHandler := audit.NewHandler(auditService)

	// --- Middleware ---
	router.MaxMultipartMemory = 8 << 20
	router.Use(
		middleware.ContextLogger(logger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst),
		middleware.Timeout(cfg.App.RequestTimeout),
	)
	authMW := middleware.AuthMiddleware(sessions)
	idempotency := middleware.Idempotency(rdb)

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		user.RegisterRoutes(api, userHandler, authMW, rbacService, idempotency)
		onboarding.RegisterRoutes(api, onboardingHandler, authMW, rbacService, idempotency)
		masteremployee.RegisterRoutes(api, masterHandler, authMW, rbacService, idempotency)
		attendance.RegisterRoutes(api, attendanceHandler, authMW, rbacService, idempotency)
		audit.RegisterRoutes(api, auditHandler, authMW, rbacService)
	}

	return audit.NewSystemLogger(auditService, logger), nil
}
