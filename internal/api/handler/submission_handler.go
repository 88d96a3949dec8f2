package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/codehive/classroom/internal/api/metrics"
	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

// DedupChecker abstracts the replay-protection store (Redis) for the async
// intake path.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, username, environment string, ts time.Time) (bool, error)
	Mark(ctx context.Context, username, environment string, ts time.Time) error
}

// Enqueuer abstracts the sharded worker pool draining async submission events.
type Enqueuer interface {
	Enqueue(event ports.SubmitInput)
}

// SubmissionHandler handles HTTP requests for the submission lifecycle.
type SubmissionHandler struct {
	service ports.SubmissionService
	queue   Enqueuer
	dedup   DedupChecker
	log     zerolog.Logger
}

func NewSubmissionHandler(service ports.SubmissionService, queue Enqueuer, dedup DedupChecker, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{service: service, queue: queue, dedup: dedup, log: log}
}

type terminalStateRequest struct {
	State      string    `json:"state" validate:"required"`
	RecordedAt time.Time `json:"recorded_at"`
}

type submittedFileRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content"`
}

type submitRequest struct {
	Username       string                 `json:"username" validate:"required"`
	GroupNumber    int                    `json:"group_number" validate:"gte=0"`
	Environment    string                 `json:"environment" validate:"required"`
	TerminalStates []terminalStateRequest `json:"terminal_states"`
	Files          []submittedFileRequest `json:"files"`
}

type submissionEventRequest struct {
	submitRequest
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

type submitResponse struct {
	AssignmentName string    `json:"assignment_name"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func (r submitRequest) toInput() ports.SubmitInput {
	states := make([]domain.TerminalState, 0, len(r.TerminalStates))
	for _, ts := range r.TerminalStates {
		states = append(states, domain.TerminalState{State: ts.State, RecordedAt: ts.RecordedAt})
	}
	files := make([]domain.SubmittedFile, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, domain.SubmittedFile{Name: f.Name, Content: f.Content})
	}
	return ports.SubmitInput{
		Username:       r.Username,
		GroupNumber:    r.GroupNumber,
		Environment:    r.Environment,
		TerminalStates: states,
		Files:          files,
	}
}

// Submit handles POST /v1/submissions — the synchronous hand-in path.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Submit(c.Request().Context(), req.toInput())
	if err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("store").Inc()
		return err
	}

	metrics.SubmissionsTotal.WithLabelValues("sync").Inc()
	return c.JSON(http.StatusCreated, submitResponse{
		AssignmentName: result.Environment,
		SubmittedAt:    result.SubmittedAt,
	})
}

// List handles GET /v1/submissions?username=<u>&group=<g>.
func (h *SubmissionHandler) List(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}
	group, err := strconv.Atoi(c.QueryParam("group"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "group must be an integer")
	}

	summaries, err := h.service.GetSubmissions(c.Request().Context(), username, group)
	if err != nil {
		return err
	}
	if summaries == nil {
		summaries = []domain.SubmissionSummary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

// IntakeEvent handles POST /v1/submission-events — the asynchronous intake
// path used by sandbox runners, which deliver at least once. Redelivered
// events are dropped via the dedup store; accepted events are acknowledged
// with 202 before the store write happens.
func (h *SubmissionHandler) IntakeEvent(c echo.Context) error {
	var req submissionEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SubmissionErrorsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	isDup, err := h.dedup.IsDuplicate(ctx, req.Username, req.Environment, req.Timestamp)
	if err != nil {
		h.log.Warn().Err(err).Str("username", req.Username).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.SubmissionDedupTotal.WithLabelValues("hit").Inc()
		return c.NoContent(http.StatusAccepted)
	}
	metrics.SubmissionDedupTotal.WithLabelValues("miss").Inc()

	if markErr := h.dedup.Mark(ctx, req.Username, req.Environment, req.Timestamp); markErr != nil {
		h.log.Warn().Err(markErr).Str("username", req.Username).Msg("failed to set dedup key")
	}

	h.queue.Enqueue(req.toInput())
	return c.NoContent(http.StatusAccepted)
}
