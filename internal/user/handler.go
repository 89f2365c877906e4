package user

import (
	"errors"
	"net/http"

	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
)

// Handler serves /api/usuarios
type Handler struct {
	service *Service
	ew      *httputil.ErrorWriter
}

func NewHandler(service *Service, ew *httputil.ErrorWriter) *Handler {
	return &Handler{service: service, ew: ew}
}

// UpdateRequest is the profile update body. birth_date is accepted as an
// alias of fecha_nacimiento.
type UpdateRequest struct {
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	BirthDate       *string `json:"birth_date"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// List returns every user
// @Summary      List users
// @Tags         usuarios
// @Produce      json
// @Success      200 {array} Profile
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/usuarios [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	profiles := make([]Profile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile()
	}
	httputil.RespondJSON(w, profiles, http.StatusOK)
}

// Get returns one user
// @Summary      Get user
// @Tags         usuarios
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}
	httputil.RespondJSON(w, u.Profile(), http.StatusOK)
}

// Update partially updates a profile
// @Summary      Update user
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      409 {object} httputil.ErrorResponse
// @Router       /api/usuarios/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	birth := req.FechaNacimiento
	if birth == nil {
		birth = req.BirthDate
	}

	u, err := h.service.UpdateProfile(r.Context(), id, UpdateInput{
		Email:           req.Email,
		Username:        req.Username,
		FechaNacimiento: birth,
	})
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user profile updated", "user_id", id)
	httputil.RespondJSON(w, u.Profile(), http.StatusOK)
}

// ChangePassword replaces the password after checking the current one
// @Summary      Change password
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body ChangePasswordRequest true "Passwords"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/{id}/change-password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	var req ChangePasswordRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("password changed", "user_id", id)
	httputil.RespondMessage(w, "Contraseña actualizada exitosamente", http.StatusOK)
}

// Delete removes a user
// @Summary      Delete user
// @Tags         usuarios
// @Param        id path int true "User ID"
// @Success      204
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("user deleted", "user_id", id)
	httputil.RespondNoContent(w)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httputil.Wrap(err, http.StatusNotFound, httputil.CodeUserNotFound, "Usuario no encontrado")
	case errors.Is(err, ErrNoFieldsToUpdate):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeNoFieldsToUpdate, "Al menos un campo debe llenarse")
	case errors.Is(err, ErrInvalidEmail):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeInvalidEmailFormat, "Formato de email inválido")
	case errors.Is(err, ErrDuplicateEmail):
		return httputil.Wrap(err, http.StatusConflict, httputil.CodeEmailAlreadyExists, "El email ya está registrado")
	case errors.Is(err, ErrEmptyUsername):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeEmptyUsername, "Username no puede estar vacío")
	case errors.Is(err, ErrInvalidDate):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeInvalidDate, "Formato de fecha inválido. Use formato ISO: YYYY-MM-DD")
	case errors.Is(err, ErrPasswordsRequired):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeValidationError, "Contraseña actual y nueva contraseña son requeridas")
	case errors.Is(err, ErrCurrentPasswordInvalid):
		return httputil.Wrap(err, http.StatusUnauthorized, httputil.CodeCurrentPasswordInvalid, "La contraseña actual es incorrecta")
	case errors.Is(err, ErrWeakPassword):
		return httputil.Wrap(err, http.StatusBadRequest, httputil.CodeWeakPassword, "La nueva contraseña debe tener entre 8 y 72 caracteres, una mayúscula, una minúscula, un número y un carácter especial (@$!%*?&#.)")
	default:
		return err
	}
}
