package favorite

import (
	"errors"
	"net/http"

	"github.com/maraton/maraton-api/internal/auth"
	"github.com/maraton/maraton-api/internal/httputil"
	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/movie"
)

// Handler serves /api/usuarios/favorites. Every route sits behind
// auth.Middleware.RequireAuth.
type Handler struct {
	service *Service
	ew      *httputil.ErrorWriter
}

func NewHandler(service *Service, ew *httputil.ErrorWriter) *Handler {
	return &Handler{service: service, ew: ew}
}

type AddRequest struct {
	PeliculaID int64 `json:"peliculaId"`
}

type SetRequest struct {
	Favorito *bool `json:"favorito"`
}

// PreferenceResponse describes the preference after a write
type PreferenceResponse struct {
	Message    string `json:"message"`
	PeliculaID int64  `json:"peliculaId"`
	Favorito   bool   `json:"favorito"`
}

type ListResponse struct {
	Total     int           `json:"total"`
	Peliculas []movie.Movie `json:"peliculas"`
}

// Add marks a movie as favorite
// @Summary      Add favorite
// @Tags         favoritos
// @Accept       json
// @Produce      json
// @Param        request body AddRequest true "Movie to add"
// @Success      201 {object} PreferenceResponse
// @Success      200 {object} PreferenceResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/favorites [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeMissingAuth, "No autenticado")
		return
	}

	var req AddRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}
	if req.PeliculaID <= 0 {
		h.ew.Respond(w, r, http.StatusBadRequest, httputil.CodeValidationError, "peliculaId es requerido")
		return
	}

	created, err := h.service.Add(r.Context(), userID, req.PeliculaID)
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}
	h.respondWrite(w, r, userID, req.PeliculaID, true, created)
}

// Set changes the favorite flag, creating the preference if needed
// @Summary      Set favorite state
// @Tags         favoritos
// @Accept       json
// @Produce      json
// @Param        id path int true "Movie ID"
// @Param        request body SetRequest true "Favorite flag"
// @Success      201 {object} PreferenceResponse
// @Success      200 {object} PreferenceResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/favorites/{id} [patch]
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeMissingAuth, "No autenticado")
		return
	}

	movieID, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	var req SetRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.ew.Write(w, r, err)
		return
	}
	if req.Favorito == nil {
		h.ew.Respond(w, r, http.StatusBadRequest, httputil.CodeValidationError, "favorito es requerido")
		return
	}

	created, err := h.service.Set(r.Context(), userID, movieID, *req.Favorito)
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}
	h.respondWrite(w, r, userID, movieID, *req.Favorito, created)
}

// List returns the session user's favorite movies
// @Summary      List favorites
// @Tags         favoritos
// @Produce      json
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/usuarios/favorites [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		h.ew.Respond(w, r, http.StatusUnauthorized, httputil.CodeMissingAuth, "No autenticado")
		return
	}

	movies, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.ew.Write(w, r, mapError(err))
		return
	}
	if movies == nil {
		movies = []movie.Movie{}
	}

	httputil.RespondJSON(w, ListResponse{Total: len(movies), Peliculas: movies}, http.StatusOK)
}

func (h *Handler) respondWrite(w http.ResponseWriter, r *http.Request, userID, movieID int64, favorito, created bool) {
	logging.GetLoggerFromContext(r.Context()).Info("favorite updated",
		"user_id", userID, "pelicula_id", movieID, "favorito", favorito, "created", created)

	resp := PreferenceResponse{PeliculaID: movieID, Favorito: favorito}
	if created {
		resp.Message = "Preferencia creada"
		httputil.RespondJSON(w, resp, http.StatusCreated)
		return
	}
	resp.Message = "Preferencia actualizada"
	httputil.RespondJSON(w, resp, http.StatusOK)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return httputil.Wrap(err, http.StatusNotFound, httputil.CodeUserNotFound, "Usuario no encontrado")
	case errors.Is(err, ErrMovieNotFound):
		return httputil.Wrap(err, http.StatusNotFound, httputil.CodeMovieNotFound, "Película no encontrada")
	default:
		return err
	}
}
