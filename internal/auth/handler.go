package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/user"
)

const recoverMessage = "Si el correo es válido recibirá instrucciones"

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	cookies CookieSettings
	ew      *httputil.ErrorWriter
}

func NewHandler(service *Service, cookies CookieSettings, ew *httputil.ErrorWriter) *Handler {
	return &Handler{service: service, cookies: cookies, ew: ew}
}

// RegisterRequest represents the registration request body.
// fecha_nacimiento is accepted as an alias of birth_date.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	Username        string `json:"username"`
	BirthDate       string `json:"birth_date"`
	FechaNacimiento string `json:"fecha_nacimiento"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RecoverRequest struct {
	Email string `json:"email"`
}

type ResetRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserResponse wraps the user projection returned by register and login
type UserResponse struct {
	Message string       `json:"message"`
	Usuario user.Profile `json:"usuario"`
}

// Register handles user registration
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	birth := req.BirthDate
	if birth == "" {
		birth = req.FechaNacimiento
	}

	u, err := h.service.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		BirthDate: birth,
	})
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user registered", "user_id", u.ID)
	httputil.RespondJSON(w, UserResponse{
		Message: "Usuario registrado exitosamente",
		Usuario: u.ProfileWithAge(h.service.Now()),
	}, http.StatusCreated)
}

// Login authenticates a user and sets the session cookie. The token is never
// part of the response body.
// @Summary      User login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} UserResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      429 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	u, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logging.GetLoggerFromContext(r.Context()).Warn("login failed: invalid credentials")
		}
		h.ew.Write(w, r, mapError(err))
		return
	}

	h.cookies.SetSessionCookie(w, token)

	logging.GetLoggerFromContext(r.Context()).Info("user logged in", "user_id", u.ID)
	httputil.RespondJSON(w, UserResponse{
		Message: "Inicio de sesión exitoso",
		Usuario: u.Profile(),
	}, http.StatusOK)
}

// Logout clears the session cookie. The token stays valid until it expires.
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w)

	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		logging.GetLoggerFromContext(r.Context()).Info("user logged out", "user_id", userID)
	}
	httputil.RespondMessage(w, "Sesión cerrada exitosamente", http.StatusOK)
}

// Recover starts the password reset flow
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RecoverRequest true "Account email"
// @Success      202 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/recover [post]
func (h *Handler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	httputil.RespondMessage(w, recoverMessage, http.StatusAccepted)
}

// Reset sets a new password using the token from the recovery email
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token path string true "Reset token"
// @Param        request body ResetRequest true "New password"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/reset/{token} [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	token := chi.URLParam(r, "token")
	if err := h.service.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword); err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	httputil.RespondMessage(w, "Contraseña actualizada", http.StatusOK)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrMissingFields):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeValidationError, "Todos los campos son requeridos")
	case errors.Is(err, user.ErrInvalidEmail):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeInvalidEmailFormat, "Formato de email inválido")
	case errors.Is(err, user.ErrWeakPassword):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeWeakPassword, "La contraseña debe tener entre 8 y 72 caracteres, una mayúscula, una minúscula, un número y un carácter especial (@$!%*?&#.)")
	case errors.Is(err, user.ErrDuplicateEmail):
		return httputil.Wrap(err, http.StatusConflict, httputil.CodeEmailAlreadyExists, "El email ya está registrado")
	case errors.Is(err, user.ErrInvalidDate):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeInvalidDate, "Formato de fecha inválido. Use formato ISO: YYYY-MM-DD")
	case errors.Is(err, ErrInvalidCredentials):
		return httputil.Wrap(err, http.StatusUnauthorized, httputil.CodeInvalidCredentials, "Credenciales inválidas")
	case errors.Is(err, ErrPasswordMismatch):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodePasswordMismatch, "Las contraseñas no coinciden")
	case errors.Is(err, ErrInvalidResetToken):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeInvalidResetToken, "Token inválido o expirado")
	default:
		return err
	}
}
