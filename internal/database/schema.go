package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates every table if it does not exist yet. Tables are
// created parents first so foreign keys resolve.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*User)(nil)},
		{model: (*Genre)(nil)},
		{model: (*Movie)(nil)},
		{
			model: (*CatalogEntry)(nil),
			foreignKeys: []string{
				`(pelicula_id) REFERENCES peliculas (id) ON DELETE CASCADE`,
				`(genero_id) REFERENCES generos (id) ON DELETE CASCADE`,
			},
		},
		{
			model: (*Preference)(nil),
			foreignKeys: []string{
				`(user_id) REFERENCES usuarios (id) ON DELETE CASCADE`,
				`(pelicula_id) REFERENCES peliculas (id) ON DELETE CASCADE`,
			},
		},
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, t := range tables {
			q := tx.NewCreateTable().Model(t.model).IfNotExists()
			for _, fk := range t.foreignKeys {
				q = q.ForeignKey(fk)
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", t.model, err)
			}
		}
		return nil
	})
}

// SeedGenres inserts the given genre names, skipping ones that already exist.
// It returns how many rows were inserted.
func SeedGenres(ctx context.Context, db bun.IDB, names []string) (int, error) {
	inserted := 0
	for _, name := range names {
		exists, err := db.NewSelect().
			Model((*Genre)(nil)).
			Where("nombre = ?", name).
			Exists(ctx)
		if err != nil {
			return inserted, fmt.Errorf("failed to check genre %q: %w", name, err)
		}
		if exists {
			continue
		}

		if _, err := db.NewInsert().Model(&Genre{Nombre: name}).Exec(ctx); err != nil {
			if IsUniqueViolation(err) {
				continue
			}
			return inserted, fmt.Errorf("failed to insert genre %q: %w", name, err)
		}
		inserted++
	}
	return inserted, nil
}

// DefaultGenres are the reference genres the catalog import uses
var DefaultGenres = []string{"Terror", "Romance", "Acción", "Aventura"}
