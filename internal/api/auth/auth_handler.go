package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/travel-diary-api/internal/api"
	"github.com/FACorreiaa/travel-diary-api/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		panic("PANIC: Attempting to create AuthHandler with nil logger!")
	}
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register User
// @Description  Creates a new account. The password is stored as a bcrypt hash.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user body types.RegisterRequest true "New user"
// @Success      200 {object} types.RegisterResponse "User created"
// @Failure      400 {object} types.Response "Invalid input or username taken"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id, err := h.authService.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrDuplicateUsername):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error registering user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.RegisterResponse{
		Success: true,
		ID:      id,
		Message: fmt.Sprintf("created new user with id %d", id),
	})
}

// Login godoc
// @Summary      Login
// @Description  Verifies the password and returns a signed access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body types.LoginRequest true "Credentials"
// @Success      200 {object} types.LoginResponse "Access token"
// @Failure      400 {object} types.Response "Invalid User or Invalid Password"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidUser):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid User")
		case errors.Is(err, types.ErrInvalidPassword):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid Password")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error logging in")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.LoginResponse{JWTToken: token})
}

// UpdateProfile godoc
// @Summary      Update Profile
// @Description  Rewrites username, password and email of the authenticated user.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        userId path int true "User ID"
// @Param        profile body types.UpdateProfileRequest true "New profile"
// @Success      200 {object} types.Response "Profile updated"
// @Failure      400 {object} types.Response "Invalid input or username taken"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      404 {object} types.Response "User not found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /update_profile/{userId} [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateProfile"))

	actorID, ok := GetUserIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	userID, err := api.ParseIDParam(r, "userId")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req types.UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err = h.authService.UpdateProfile(ctx, actorID, userID, req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrForbidden):
			api.ErrorResponse(w, r, http.StatusForbidden, "Cannot update another user's profile")
		case errors.Is(err, types.ErrDuplicateUsername):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Error updating profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{Success: true, Message: "User profile updated"})
}
