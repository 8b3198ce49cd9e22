package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/samses-ng/samses-api/api/swagger"
	"github.com/samses-ng/samses-api/internal/handler"
	"github.com/samses-ng/samses-api/internal/repository"
	"github.com/samses-ng/samses-api/internal/service"
	"github.com/samses-ng/samses-api/pkg/cache"
	"github.com/samses-ng/samses-api/pkg/config"
	"github.com/samses-ng/samses-api/pkg/database"
	"github.com/samses-ng/samses-api/pkg/logger"
	"github.com/samses-ng/samses-api/pkg/storage"
)

// @title SAMSES API
// @version 1.0.0
// @description State school administration API: schools, academic sessions, students, staff, finance, accreditation and report exports.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	cacheSvc := buildCache(cfg, metricsSvc, logr)

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	termRepo := repository.NewTermRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	gradingRepo := repository.NewGradingRepository(db)
	infraRepo := repository.NewInfrastructureRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	accreditationRepo := repository.NewAccreditationRepository(db)
	suspensionRepo := repository.NewSuspensionRepository(db)
	exportRepo := repository.NewExportRepository(db)

	resolver := service.NewSessionResolver(sessionRepo, termRepo, cacheSvc, metricsSvc, logr)
	identifiers := service.NewIdentifierService(studentRepo, enrollmentRepo, accreditationRepo, financeRepo, metricsSvc, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "samses-api",
		Audience:           []string{"samses"},
	})
	userSvc := service.NewUserService(userRepo, schoolRepo, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, identifiers, resolver, accreditationRepo, suspensionRepo, uploadStore, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, termRepo, resolver, userRepo, validate, logr)
	termSvc := service.NewTermService(termRepo, sessionRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, identifiers, uploadStore, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, schoolRepo, studentRepo, resolver, identifiers, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	gradingSvc := service.NewGradingService(gradingRepo, subjectRepo, validate, logr)
	infraSvc := service.NewInfrastructureService(infraRepo, schoolRepo, uploadStore, validate, logr)
	staffSvc := service.NewStaffService(staffRepo, schoolRepo, validate, logr)
	financeSvc := service.NewFinanceService(financeRepo, studentRepo, identifiers, validate, logr)
	accreditationSvc := service.NewAccreditationService(accreditationRepo, schoolRepo, identifiers, validate, logr)
	suspensionSvc := service.NewSuspensionService(suspensionRepo, schoolRepo, resolver, validate, logr)
	exportSvc := service.NewExportService(exportRepo, schoolRepo, studentRepo, resolver, exportStore, signer, service.ExportConfig{
		Workers: cfg.Exports.WorkerConcurrency,
		FileTTL: cfg.Exports.SignedURLTTL,
	}, logr)

	if cfg.Exports.Enabled {
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
		go exportSvc.CleanupLoop(ctx, cfg.Exports.CleanupInterval)
	}

	deps := routeDeps{
		cfg:     cfg,
		logger:  logr,
		db:      db,
		auth:    authSvc,
		metrics: metricsSvc,
		audit:   userRepo,

		authHandler:          handler.NewAuthHandler(authSvc, userSvc),
		userHandler:          handler.NewUserHandler(userSvc),
		schoolHandler:        handler.NewSchoolHandler(schoolSvc),
		sessionHandler:       handler.NewSessionHandler(sessionSvc),
		termHandler:          handler.NewTermHandler(termSvc),
		studentHandler:       handler.NewStudentHandler(studentSvc),
		enrollmentHandler:    handler.NewEnrollmentHandler(enrollmentSvc),
		subjectHandler:       handler.NewSubjectHandler(subjectSvc),
		gradingHandler:       handler.NewGradingHandler(gradingSvc),
		infraHandler:         handler.NewInfrastructureHandler(infraSvc),
		staffHandler:         handler.NewStaffHandler(staffSvc),
		financeHandler:       handler.NewFinanceHandler(financeSvc),
		accreditationHandler: handler.NewAccreditationHandler(accreditationSvc),
		suspensionHandler:    handler.NewSuspensionHandler(suspensionSvc),
		exportHandler:        handler.NewExportHandler(exportSvc),
	}

	r := newRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}

// buildCache wires the resolver cache. A missing Redis is a degradation,
// not a startup failure: the resolver falls back to the database.
func buildCache(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Sessions.CacheEnabled {
		return service.NewCacheService(nil, metrics, cfg.Sessions.CacheTTL, logr, false)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, session cache disabled", "error", err)
		return service.NewCacheService(nil, metrics, cfg.Sessions.CacheTTL, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metrics, cfg.Sessions.CacheTTL, logr, true)
}
