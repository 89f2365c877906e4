package favorite

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
	"github.com/maraton/maraton-api/internal/movie"
)

// Repository persists gustos rows. The (user_id, pelicula_id) unique index
// keeps one row per pair even when two requests race.
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// SetFavorite upserts the preference for (userID, movieID) and reports
// whether the row was created.
func (r *Repository) SetFavorite(ctx context.Context, userID, movieID int64, favorito bool) (bool, error) {
	row := &database.Preference{
		UserID:     userID,
		PeliculaID: movieID,
		Favorito:   favorito,
		UpdatedAt:  time.Now(),
	}

	if database.IsMySQL(r.db) {
		return r.setFavoriteMySQL(ctx, row)
	}

	var created bool
	if err := upsertPreferenceQuery(r.db, row).Scan(ctx, &created); err != nil {
		return false, fmt.Errorf("failed to upsert preference: %w", err)
	}
	return created, nil
}

// ON DUPLICATE KEY UPDATE cannot tell an unchanged row from an insert once
// CLIENT_FOUND_ROWS is on, so MySQL inserts-or-ignores and then updates.
func (r *Repository) setFavoriteMySQL(ctx context.Context, row *database.Preference) (bool, error) {
	res, err := insertPreferenceIgnoreQuery(r.db, row).Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert preference: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return true, nil
	}

	if _, err := updatePreferenceQuery(r.db, row).Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to update preference: %w", err)
	}
	return false, nil
}

// upsertPreferenceQuery inserts row or overwrites favorito on the existing
// pair. xmax is zero only for a freshly inserted tuple.
func upsertPreferenceQuery(db bun.IDB, row *database.Preference) *bun.InsertQuery {
	return db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, pelicula_id) DO UPDATE").
		Set("favorito = EXCLUDED.favorito").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("(xmax = 0) AS created")
}

func insertPreferenceIgnoreQuery(db bun.IDB, row *database.Preference) *bun.InsertQuery {
	return db.NewInsert().Model(row).Ignore()
}

func updatePreferenceQuery(db bun.IDB, row *database.Preference) *bun.UpdateQuery {
	return db.NewUpdate().
		Model((*database.Preference)(nil)).
		Set("favorito = ?", row.Favorito).
		Set("updated_at = ?", row.UpdatedAt).
		Where("user_id = ? AND pelicula_id = ?", row.UserID, row.PeliculaID)
}

// ListFavorites returns the movies userID marked as favorite, with genres
func (r *Repository) ListFavorites(ctx context.Context, userID int64) ([]movie.Movie, error) {
	var rows []database.Movie
	if err := favoritesQuery(r.db, &rows, userID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return movie.MapMovies(rows), nil
}

func favoritesQuery(db bun.IDB, rows *[]database.Movie, userID int64) *bun.SelectQuery {
	return db.NewSelect().
		Model(rows).
		Relation("Genres").
		Where(`EXISTS (
			SELECT 1 FROM gustos AS gu
			WHERE gu.pelicula_id = p.id AND gu.user_id = ? AND gu.favorito = ?
		)`, userID, true).
		Order("p.id ASC")
}
