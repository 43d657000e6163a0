package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tasktrack/tasks-service/internal/api/handler"
	"github.com/tasktrack/tasks-service/internal/api/metrics"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// Deps carries everything the router needs to serve requests.
type Deps struct {
	Users  ports.UserService
	Tasks  ports.TaskService
	Checks map[string]handler.Check // readiness probes by dependency name
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// It registers the HTTP metrics collectors globally, so call it once per process.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(accessLog(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace: metrics.Namespace,
		Subsystem: metrics.Subsystem,
	}))

	// --- Handlers ---
	users := handler.NewUserHandler(d.Users)
	tasks := handler.NewTaskHandler(d.Tasks)
	health := handler.NewHealthHandler(d.Checks)

	// --- Users ---
	v1 := e.Group("/v1")
	v1.POST("/users", users.Create)
	v1.GET("/users", users.List)
	v1.GET("/users/active", users.ListActive)
	v1.GET("/users/premium", users.ListPremium)
	v1.GET("/users/:id", users.Get)
	v1.PATCH("/users/:id/status", users.UpdateStatus)
	v1.PATCH("/users/:id/premium", users.UpgradePremium)
	v1.GET("/users/:id/tasks", tasks.ListByUser)
	v1.GET("/users/:id/history", users.History)

	// --- Tasks ---
	v1.POST("/tasks", tasks.Create)
	v1.GET("/tasks/:id", tasks.Get)
	v1.PATCH("/tasks/:id/status", tasks.UpdateStatus)
	v1.GET("/tasks/:id/history", tasks.History)

	// --- Operations ---
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// accessLog writes one zerolog entry per request.
func accessLog(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
