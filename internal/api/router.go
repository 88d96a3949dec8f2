package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/codehive/classroom/internal/api/handler"
	"github.com/codehive/classroom/internal/core/ports"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Accounts    ports.AccountService
	Submissions ports.SubmissionService
	Roster      ports.RosterService
	Queue       handler.Enqueuer
	Dedup       handler.DedupChecker
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("classroom"))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	submissionHandler := handler.NewSubmissionHandler(deps.Submissions, deps.Queue, deps.Dedup, deps.Log)
	rosterHandler := handler.NewRosterHandler(deps.Roster)

	// --- Account routes ---
	e.GET("/v1/accounts", accountHandler.ListAll)
	e.GET("/v1/accounts/:username", accountHandler.Get)
	e.PUT("/v1/accounts/:username/password", accountHandler.ChangePassword)
	e.GET("/v1/accounts/:username/environments", accountHandler.ListEnvironments)
	e.POST("/v1/accounts/:username/environments", accountHandler.AddEnvironment)
	e.DELETE("/v1/accounts/:username/environments/:name", accountHandler.RemoveEnvironment)

	// --- Submission routes ---
	e.POST("/v1/submissions", submissionHandler.Submit)
	e.GET("/v1/submissions", submissionHandler.List)
	e.POST("/v1/submission-events", submissionHandler.IntakeEvent)

	// --- Course / roster routes ---
	e.GET("/v1/courses", rosterHandler.ListCourses)
	e.POST("/v1/courses/:id/membership", rosterHandler.UpdateMembership)

	// --- Health probes + metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
