package movie

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/maraton/maraton-api/internal/httputil"
)

// Handler serves the read-only /api/peliculas endpoints
type Handler struct {
	service *Service
	ew      *httputil.ErrorWriter
}

func NewHandler(service *Service, ew *httputil.ErrorWriter) *Handler {
	return &Handler{service: service, ew: ew}
}

// List returns every movie
// @Summary      List movies
// @Tags         peliculas
// @Produce      json
// @Success      200 {array} Movie
// @Router       /api/peliculas [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}
	httputil.RespondJSON(w, movies, http.StatusOK)
}

// Get returns one movie
// @Summary      Get movie
// @Tags         peliculas
// @Produce      json
// @Param        id path int true "Movie ID"
// @Success      200 {object} Movie
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/peliculas/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.IDParam(r, "id")
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = httputil.Wrap(err, http.StatusNotFound, httputil.CodeMovieNotFound, "Película no encontrada")
		}
		h.ew.Write(w, r, err)
		return
	}
	httputil.RespondJSON(w, m, http.StatusOK)
}

// Genres lists every genre
// @Summary      List genres
// @Tags         peliculas
// @Produce      json
// @Success      200 {array} Genre
// @Router       /api/peliculas/generos [get]
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.Genres(r.Context())
	if err != nil {
		h.ew.Write(w, r, err)
		return
	}
	httputil.RespondJSON(w, genres, http.StatusOK)
}

// ByGenre lists movies of a genre, matched ignoring case
// @Summary      Movies by genre
// @Tags         peliculas
// @Produce      json
// @Param        nombre path string true "Genre name"
// @Success      200 {array} Movie
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/peliculas/genero/{nombre} [get]
func (h *Handler) ByGenre(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "nombre")
	// chi routes on RawPath when it is set, leaving the segment escaped
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	movies, err := h.service.ByGenre(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrGenreEmpty) {
			err = httputil.Wrap(err, http.StatusNotFound, httputil.CodeGenreEmpty, "No se encontraron películas para el género "+name)
		}
		h.ew.Write(w, r, err)
		return
	}
	httputil.RespondJSON(w, movies, http.StatusOK)
}
