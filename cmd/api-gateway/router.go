package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/handler"
	"github.com/samses-ng/samses-api/internal/middleware"
	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
	"github.com/samses-ng/samses-api/pkg/config"
	"github.com/samses-ng/samses-api/pkg/logger"
	corsmiddleware "github.com/samses-ng/samses-api/pkg/middleware/cors"
	reqidmiddleware "github.com/samses-ng/samses-api/pkg/middleware/requestid"
)

type routeDeps struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	auth    *service.AuthService
	metrics *service.MetricsService
	audit   middleware.AuditSink

	authHandler          *handler.AuthHandler
	userHandler          *handler.UserHandler
	schoolHandler        *handler.SchoolHandler
	sessionHandler       *handler.SessionHandler
	termHandler          *handler.TermHandler
	studentHandler       *handler.StudentHandler
	enrollmentHandler    *handler.EnrollmentHandler
	subjectHandler       *handler.SubjectHandler
	gradingHandler       *handler.GradingHandler
	infraHandler         *handler.InfrastructureHandler
	staffHandler         *handler.StaffHandler
	financeHandler       *handler.FinanceHandler
	accreditationHandler *handler.AccreditationHandler
	suspensionHandler    *handler.SuspensionHandler
	exportHandler        *handler.ExportHandler
}

func newRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(d.logger))
	r.Use(corsmiddleware.New(d.cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(d.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := d.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(d.metrics.Handler()))

	if d.cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(d.cfg.APIPrefix)

	// Unauthenticated surface: login, token refresh, signed downloads.
	api.POST("/auth/login", d.authHandler.Login)
	api.POST("/auth/refresh", d.authHandler.Refresh)
	api.GET("/exports/download", d.exportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(d.auth))

	ministry := middleware.RequireRoles(models.RoleMinistryAdmin)
	admins := middleware.RequireRoles(models.RoleMinistryAdmin, models.RoleSchoolAdmin)
	schoolScoped := middleware.SchoolScope("id")

	authed.POST("/auth/logout", d.authHandler.Logout)
	authed.PUT("/auth/password", d.authHandler.ChangePassword)
	authed.GET("/auth/me", d.authHandler.Me)

	users := authed.Group("/users", ministry)
	{
		users.GET("", d.userHandler.List)
		users.GET("/:id", d.userHandler.Get)
		users.POST("", d.userHandler.Create)
		users.PUT("/:id", d.userHandler.Update)
		users.DELETE("/:id", d.userHandler.Deactivate)
	}

	sessions := authed.Group("/sessions")
	{
		sessions.GET("", d.sessionHandler.List)
		sessions.GET("/:id", d.sessionHandler.Get)
		sessions.GET("/:id/terms", d.sessionHandler.Terms)
		sessions.POST("", ministry, d.sessionHandler.Create)
		sessions.PUT("/:id", ministry, d.sessionHandler.Update)
		sessions.DELETE("/:id", ministry, d.sessionHandler.Delete)
		sessions.POST("/complete-ongoing", ministry,
			middleware.Audit(d.audit, models.AuditActionSessionBatch, "academic_session"),
			d.sessionHandler.CompleteOngoing)
	}

	terms := authed.Group("/terms")
	{
		terms.GET("/:id", d.termHandler.Get)
		terms.POST("", ministry, d.termHandler.Create)
		terms.PUT("/:id", ministry, d.termHandler.Update)
		terms.DELETE("/:id", ministry, d.termHandler.Delete)
	}

	schools := authed.Group("/schools")
	{
		schools.GET("", d.schoolHandler.List)
		schools.POST("", ministry, d.schoolHandler.Create)
		schools.GET("/:id", schoolScoped, d.schoolHandler.Get)
		schools.GET("/:id/detail", schoolScoped, d.schoolHandler.Detail)
		schools.PUT("/:id", admins, schoolScoped, d.schoolHandler.Update)
		schools.PUT("/:id/logo", admins, schoolScoped, d.schoolHandler.SetLogo)
		schools.DELETE("/:id", ministry, d.schoolHandler.Delete)

		schools.GET("/:id/accreditation", schoolScoped, d.accreditationHandler.Current)
		schools.GET("/:id/accreditation/history", schoolScoped, d.accreditationHandler.History)
		schools.POST("/:id/accreditation", ministry, d.accreditationHandler.Transition)

		schools.GET("/:id/infrastructure", schoolScoped, d.infraHandler.List)
		schools.PUT("/:id/infrastructure", admins, schoolScoped, d.infraHandler.Upsert)
		schools.GET("/:id/infrastructure/:kind/images", schoolScoped, d.infraHandler.Images)
		schools.POST("/:id/infrastructure/:kind/images", admins, schoolScoped, d.infraHandler.AddImage)

		schools.GET("/:id/staff", schoolScoped, d.staffHandler.List)
		schools.POST("/:id/staff", admins, schoolScoped, d.staffHandler.Create)

		schools.GET("/:id/fees", schoolScoped, d.financeHandler.FeeStructures)
		schools.POST("/:id/fees", admins, schoolScoped, d.financeHandler.CreateFeeStructure)
		schools.POST("/:id/invoices", admins, schoolScoped, d.financeHandler.CreateInvoice)
		schools.GET("/:id/expense-categories", schoolScoped, d.financeHandler.ExpenseCategories)
		schools.POST("/:id/expense-categories", admins, schoolScoped, d.financeHandler.CreateExpenseCategory)
		schools.GET("/:id/expenses", schoolScoped, d.financeHandler.Expenses)
		schools.POST("/:id/expenses", admins, schoolScoped, d.financeHandler.RecordExpense)

		schools.GET("/:id/exports", schoolScoped, d.exportHandler.History)
		schools.POST("/:id/exports", admins, schoolScoped, d.exportHandler.Request)
	}

	students := authed.Group("/students")
	{
		students.GET("", d.studentHandler.List)
		students.GET("/:id", d.studentHandler.Get)
		students.POST("", admins, d.studentHandler.Create)
		students.PUT("/:id", admins, d.studentHandler.Update)
		students.PUT("/:id/passport", admins, d.studentHandler.SetPassport)
		students.DELETE("/:id", admins, d.studentHandler.Deactivate)
	}

	enrollments := authed.Group("/enrollments")
	{
		enrollments.GET("", d.enrollmentHandler.List)
		enrollments.POST("", admins, d.enrollmentHandler.Enroll)
		enrollments.DELETE("/:id", admins, d.enrollmentHandler.Withdraw)
	}

	subjects := authed.Group("/subjects")
	{
		subjects.GET("", d.subjectHandler.List)
		subjects.GET("/:id", d.subjectHandler.Get)
		subjects.POST("", admins, d.subjectHandler.Create)
		subjects.PUT("/:id", admins, d.subjectHandler.Update)
		subjects.DELETE("/:id", admins, d.subjectHandler.Delete)

		subjects.GET("/:id/grading", d.gradingHandler.SubjectConfigs)
		subjects.POST("/:id/grading", admins, d.gradingHandler.AssignScale)
	}

	grading := authed.Group("/grading")
	{
		grading.GET("/scales", d.gradingHandler.ListScales)
		grading.GET("/scales/:id", d.gradingHandler.GetScale)
		grading.POST("/scales", ministry, d.gradingHandler.CreateScale)
		grading.DELETE("/scales/:id", ministry, d.gradingHandler.DeleteScale)
		grading.GET("/scales/:id/grade", d.gradingHandler.GradeFor)
		grading.POST("/scales/:id/boundaries", ministry, d.gradingHandler.AddBoundary)
		grading.DELETE("/boundaries/:id", ministry, d.gradingHandler.RemoveBoundary)
	}

	staff := authed.Group("/staff")
	{
		staff.GET("/:id", d.staffHandler.Get)
		staff.PUT("/:id", admins, d.staffHandler.Update)
		staff.DELETE("/:id", admins, d.staffHandler.Deactivate)
		staff.GET("/:id/salaries", d.staffHandler.Salaries)
		staff.POST("/:id/salaries", admins, d.staffHandler.RecordSalary)
	}

	invoices := authed.Group("/invoices")
	{
		invoices.GET("", d.financeHandler.Invoices)
		invoices.GET("/:invoiceId", d.financeHandler.Invoice)
		invoices.POST("/:invoiceId/payments", admins, d.financeHandler.RecordPayment)
	}

	authed.DELETE("/fees/:feeId", admins, d.financeHandler.DeleteFeeStructure)
	authed.DELETE("/infrastructure/images/:imageId", admins, d.infraHandler.RemoveImage)

	suspensions := authed.Group("/suspensions")
	{
		suspensions.GET("", d.suspensionHandler.List)
		suspensions.POST("", ministry, d.suspensionHandler.Create)
		suspensions.PUT("/:id", ministry, d.suspensionHandler.Update)
		suspensions.DELETE("/:id", ministry, d.suspensionHandler.Drop)
	}

	exports := authed.Group("/exports")
	{
		exports.GET("/:id", d.exportHandler.Status)
		exports.GET("/:id/download-url", d.exportHandler.DownloadURL)
	}

	return r
}
