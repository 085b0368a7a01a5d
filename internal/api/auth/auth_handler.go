package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitfeed/fitfeed/internal/api"
	"github.com/fitfeed/fitfeed/internal/types"
)

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account from email and password plus optional profile fields.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body body RegisterRequest true "Registration details"
// @Success      201 {object} types.UserAuth "Created user (password hash excluded)"
// @Failure      400 {object} types.Response "Validation failure or duplicate email/username"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrValidation), errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Register failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, user)
}

// Login godoc
// @Summary      Login
// @Description  Verifies credentials and returns an access/refresh token pair. The error message never reveals whether the email or the password was wrong.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body body LoginRequest true "Credentials"
// @Success      200 {object} LoginResponse "Token pair and user ID"
// @Failure      400 {object} types.Response "Invalid Username or Password"
// @Failure      500 {object} types.Response "Missing Configuration"
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, userID, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrUnauthenticated):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid Username or Password")
		case errors.Is(err, types.ErrMissingConfig):
			l.ErrorContext(ctx, "Login misconfigured", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Missing Configuration")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       userID,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Consumes a refresh token, removing it from the user's session set.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} types.Response "Logged Out"
// @Failure      400 {object} types.Response "Missing token"
// @Failure      403 {object} types.Response "Invalid token"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Server misconfigured"
// @Router       /auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Logout"))

	var req RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		h.writeTokenFlowError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "Logged Out"})
}

// RefreshSession godoc
// @Summary      Refresh token pair
// @Description  Rotates the submitted refresh token and returns a brand-new token pair. A rotated-away token presented again invalidates all of the user's sessions.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} LoginResponse "New token pair"
// @Failure      400 {object} types.Response "Missing token"
// @Failure      403 {object} types.Response "Invalid token"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Server misconfigured"
// @Router       /auth/refresh [post]
func (h *HandlerImpl) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RefreshSession"))

	var req RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, userID, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		h.writeTokenFlowError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       userID,
	})
}

// writeTokenFlowError maps logout/refresh failures onto the shared status
// table for token flows.
func (h *HandlerImpl) writeTokenFlowError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Missing Token")
	case errors.Is(err, types.ErrMissingConfig):
		l.ErrorContext(r.Context(), "Token flow misconfigured", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server Error")
	case errors.Is(err, types.ErrInvalidToken):
		api.ErrorResponse(w, r, http.StatusForbidden, "Invalid Token")
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "User Not Found")
	default:
		l.ErrorContext(r.Context(), "Token flow failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
