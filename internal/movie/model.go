package movie

import "github.com/maraton/maraton-api/internal/database"

type Genre struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

type Movie struct {
	ID           int64   `json:"id"`
	Titulo       string  `json:"titulo"`
	Duracion     int     `json:"duracion"`
	Largometraje string  `json:"largometraje"`
	Actores      string  `json:"actores"`
	Anio         int     `json:"anio"`
	Disponible   bool    `json:"disponible"`
	Sinopsis     string  `json:"sinopsis"`
	Trailer      string  `json:"trailer"`
	Director     string  `json:"director"`
	Portada      string  `json:"portada"`
	IdiomaID     *int64  `json:"idiomaId"`
	Generos      []Genre `json:"generos"`
}

func mapDBMovie(m *database.Movie) Movie {
	genres := make([]Genre, len(m.Genres))
	for i, g := range m.Genres {
		genres[i] = Genre{ID: g.ID, Nombre: g.Nombre}
	}
	return Movie{
		ID:           m.ID,
		Titulo:       m.Titulo,
		Duracion:     m.Duracion,
		Largometraje: m.Largometraje,
		Actores:      m.Actores,
		Anio:         m.Anio,
		Disponible:   m.Disponible,
		Sinopsis:     m.Sinopsis,
		Trailer:      m.Trailer,
		Director:     m.Director,
		Portada:      m.Portada,
		IdiomaID:     m.IdiomaID,
		Generos:      genres,
	}
}

// MapMovies converts bun rows, keeping order
func MapMovies(rows []database.Movie) []Movie {
	out := make([]Movie, len(rows))
	for i := range rows {
		out[i] = mapDBMovie(&rows[i])
	}
	return out
}
