package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codehive/classroom/internal/core/ports"
)

// AccountHandler handles HTTP requests for account and environment operations.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type addEnvironmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	InstanceID  string `json:"instance_id"`
}

// Get handles GET /v1/accounts/:username. An absent account is a plain 404;
// the store itself reports absence as an empty result, not an error.
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.GetAccount(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	if account == nil {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	return c.JSON(http.StatusOK, account)
}

// ChangePassword handles PUT /v1/accounts/:username/password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), c.Param("username"), req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEnvironments handles GET /v1/accounts/:username/environments.
func (h *AccountHandler) ListEnvironments(c echo.Context) error {
	envs, err := h.service.ListEnvironments(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envs)
}

// AddEnvironment handles POST /v1/accounts/:username/environments. Adding a
// name the user already has is a successful no-op.
func (h *AccountHandler) AddEnvironment(c echo.Context) error {
	var req addEnvironmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.service.AddEnvironment(c.Request().Context(), ports.AddEnvironmentInput{
		Username:    c.Param("username"),
		Name:        req.Name,
		Description: req.Description,
		InstanceID:  req.InstanceID,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveEnvironment handles DELETE /v1/accounts/:username/environments/:name.
// Removing an absent name is a successful no-op.
func (h *AccountHandler) RemoveEnvironment(c echo.Context) error {
	if err := h.service.RemoveEnvironment(c.Request().Context(), c.Param("username"), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll handles GET /v1/accounts.
func (h *AccountHandler) ListAll(c echo.Context) error {
	users, err := h.service.ListAllUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
