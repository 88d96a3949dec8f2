package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codehive/classroom/internal/api/metrics"
	"github.com/codehive/classroom/internal/core/domain"
	"github.com/codehive/classroom/internal/core/ports"
)

// RosterHandler handles HTTP requests for course and membership operations.
type RosterHandler struct {
	service ports.RosterService
}

func NewRosterHandler(service ports.RosterService) *RosterHandler {
	return &RosterHandler{service: service}
}

type membershipRequest struct {
	Add    []string `json:"add"`
	Remove []string `json:"remove"`
}

// UpdateMembership handles POST /v1/courses/:id/membership. The whole change
// is applied in one transaction; on abort the result envelope carries the
// failure message and no membership differs from before the call.
func (h *RosterHandler) UpdateMembership(c echo.Context) error {
	var req membershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result := h.service.UpdateCourseMembership(c.Request().Context(), ports.MembershipUpdateInput{
		AddUserIDs:    req.Add,
		RemoveUserIDs: req.Remove,
		CourseID:      c.Param("id"),
	})
	if result.Error {
		metrics.RosterTransactionsTotal.WithLabelValues("aborted").Inc()
		return c.JSON(http.StatusConflict, result)
	}

	metrics.RosterTransactionsTotal.WithLabelValues("committed").Inc()
	return c.JSON(http.StatusOK, result)
}

// ListCourses handles GET /v1/courses.
func (h *RosterHandler) ListCourses(c echo.Context) error {
	courses, err := h.service.ListAllCourses(c.Request().Context())
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []*domain.CourseRecord{}
	}
	return c.JSON(http.StatusOK, courses)
}
