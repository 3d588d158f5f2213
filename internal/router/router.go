package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/handler"
	"github.com/noah-isme/dsa-enrollment-api/internal/middleware"
	"github.com/noah-isme/dsa-enrollment-api/internal/service"
	"github.com/noah-isme/dsa-enrollment-api/pkg/config"
	"github.com/noah-isme/dsa-enrollment-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dsa-enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dsa-enrollment-api/pkg/middleware/requestid"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Metrics      *handler.MetricsHandler
	Content      *handler.ContentHandler
	Courses      *handler.CourseHandler
	Schedule     *handler.ScheduleHandler
	Applications *handler.ApplicationHandler
	Payments     *handler.PaymentHandler
}

// Setup builds the Gin engine with middleware and every route.
func Setup(cfg *config.Config, h *Handlers, metrics *service.MetricsService, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metrics))
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.GET("/navigation", h.Content.Navigation)
	pages := api.Group("/pages")
	{
		pages.GET("/home", h.Content.Home)
		pages.GET("/about", h.Content.About)
		pages.GET("/certification", h.Content.Certification)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.GET("/:id/order-summary", h.Courses.OrderSummary)
	}

	schedule := api.Group("/training-schedule")
	{
		schedule.GET("", h.Schedule.List)
		schedule.GET("/export.csv", h.Schedule.Export)
	}

	applications := api.Group("/applications")
	{
		applications.GET("/options", h.Applications.Options)
		applications.POST("", h.Applications.Create)
		applications.GET("/:id", h.Applications.Get)
		applications.PATCH("/:id/fields", h.Applications.SetField)
		applications.POST("/:id/validate", h.Applications.Validate)
		applications.POST("/:id/submit", h.Applications.Submit)
		applications.POST("/:id/reset", h.Applications.Reset)
		applications.GET("/:id/acknowledgement.pdf", h.Applications.Acknowledgement)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payments.Create)
		payments.GET("/:id", h.Payments.Get)
		payments.PUT("/:id/course", h.Payments.SelectCourse)
		payments.PUT("/:id/method", h.Payments.SetMethod)
		payments.PATCH("/:id/fields", h.Payments.SetField)
		payments.POST("/:id/submit", h.Payments.Submit)
		payments.POST("/:id/upi-apps/:app", h.Payments.PayWithApp)
		payments.POST("/:id/cancel", h.Payments.Cancel)
		payments.POST("/:id/reset", h.Payments.Reset)
		payments.GET("/:id/stream", h.Payments.Stream)
		payments.GET("/:id/receipt", h.Payments.ReceiptLink)
	}

	api.GET("/receipts/:token", h.Payments.Receipt)

	return r
}

// ReceiptsPath is the public path receipt tokens are appended to.
func ReceiptsPath(cfg *config.Config) string {
	return cfg.APIPrefix + "/receipts"
}
