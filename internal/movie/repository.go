package movie

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
)

var ErrNotFound = errors.New("movie not found")

// Repository reads the catalog. Movies are written by the import job only.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Movie, error) {
	var rows []database.Movie
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Genres").
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return MapMovies(rows), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Movie, error) {
	row := new(database.Movie)
	err := r.db.NewSelect().
		Model(row).
		Relation("Genres").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	m := mapDBMovie(row)
	return &m, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.db.NewSelect().Model((*database.Movie)(nil)).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return ok, nil
}

func (r *Repository) ListGenres(ctx context.Context) ([]Genre, error) {
	var rows []database.Genre
	if err := r.db.NewSelect().Model(&rows).Order("g.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}

	genres := make([]Genre, len(rows))
	for i, g := range rows {
		genres[i] = Genre{ID: g.ID, Nombre: g.Nombre}
	}
	return genres, nil
}

// ListByGenre returns movies catalogued under the genre whose name matches
// name ignoring case.
func (r *Repository) ListByGenre(ctx context.Context, name string) ([]Movie, error) {
	var rows []database.Movie
	if err := byGenreQuery(r.db, &rows, name).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list movies by genre: %w", err)
	}
	return MapMovies(rows), nil
}

func byGenreQuery(db bun.IDB, rows *[]database.Movie, name string) *bun.SelectQuery {
	return db.NewSelect().
		Model(rows).
		Relation("Genres").
		Where(`EXISTS (
			SELECT 1 FROM catalogo AS c
			JOIN generos AS g2 ON g2.id = c.genero_id
			WHERE c.pelicula_id = p.id AND LOWER(g2.nombre) = LOWER(?)
		)`, name).
		Order("p.id ASC")
}
