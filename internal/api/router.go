package api

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/database"
	"github.com/saturnino-fabrica-de-software/bundyclock/internal/ws"
)

type Dependencies struct {
	Attendance handler.AttendanceService
	Employees  handler.EmployeeService
	Faces      handler.FaceService
	// Hub serves the live feed; the caller owns its Run loop. Optional.
	Hub *ws.Hub
	// DB backs the readiness check. Nil when running on the in-memory ledger.
	DB database.Pinger

	AllowedOrigins []string
	// Token bucket for the clock endpoints, per client IP
	RateLimit float64
	RateBurst int
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "BundyClock API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var db database.Pinger
	if r.deps != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db, r.logger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	apiGroup := r.app.Group("/api")

	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  r.deps.RateLimit,
		Burst: r.deps.RateBurst,
	})

	// Attendance routes
	attendanceHandler := handler.NewAttendanceHandler(r.deps.Attendance, r.logger.With("component", "attendance"))
	attendance := apiGroup.Group("/attendance")
	attendance.Post("/time-in", r.rateLimiter.Handler(), attendanceHandler.TimeIn)
	attendance.Post("/time-out", r.rateLimiter.Handler(), attendanceHandler.TimeOut)
	if r.deps.Hub != nil {
		attendance.Get("/live", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
	attendance.Get("/", attendanceHandler.List)
	attendance.Get("/employee/:employeeId", attendanceHandler.ListForEmployee)
	attendance.Get("/employee/:employeeId/state", attendanceHandler.State)

	// Face routes
	faceHandler := handler.NewFaceHandler(r.deps.Faces, r.logger.With("component", "face"))
	apiGroup.Post("/face/verify", faceHandler.Verify)
	apiGroup.Post("/face/register", faceHandler.Register)

	// Employee routes
	employeeHandler := handler.NewEmployeeHandler(r.deps.Employees, r.logger.With("component", "employee"))
	employees := apiGroup.Group("/employees")
	employees.Get("/", employeeHandler.List)
	employees.Post("/", employeeHandler.Create)
	employees.Get("/:id", employeeHandler.Get)
	employees.Put("/:id", employeeHandler.Update)
	employees.Delete("/:id", employeeHandler.Delete)
	employees.Get("/:id/faces", faceHandler.Embeddings)
}

func (r *Router) allowedOrigins() string {
	if r.deps == nil || len(r.deps.AllowedOrigins) == 0 {
		return "*"
	}
	return strings.Join(r.deps.AllowedOrigins, ",")
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop rate limiter cleanup goroutine
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
