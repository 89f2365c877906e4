//go:build integration

package movie

import (
	"context"
	"fmt"
	"testing"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
	"github.com/maraton/maraton-api/internal/testinfra"
)

// seedCatalog stores three movies: Alien (Terror), Scream (Terror, Romance)
// and Notebook (Romance).
func seedCatalog(t *testing.T, db *bun.DB) map[string]int64 {
	t.Helper()
	ctx := context.Background()

	if _, err := database.SeedGenres(ctx, db, []string{"Terror", "Romance"}); err != nil {
		t.Fatalf("SeedGenres() error = %v", err)
	}
	var genres []database.Genre
	if err := db.NewSelect().Model(&genres).Scan(ctx); err != nil {
		t.Fatalf("select genres: %v", err)
	}
	genreID := make(map[string]int64)
	for _, g := range genres {
		genreID[g.Nombre] = g.ID
	}

	catalog := []struct {
		titulo string
		genres []string
	}{
		{"Alien", []string{"Terror"}},
		{"Scream", []string{"Terror", "Romance"}},
		{"Notebook", []string{"Romance"}},
	}

	ids := make(map[string]int64)
	for _, c := range catalog {
		m := &database.Movie{
			Titulo:       c.titulo,
			Duracion:     100,
			Largometraje: fmt.Sprintf("https://cdn/%s.mp4", c.titulo),
			Disponible:   true,
		}
		if _, err := db.NewInsert().Model(m).Exec(ctx); err != nil {
			t.Fatalf("insert movie: %v", err)
		}
		ids[c.titulo] = m.ID
		for _, g := range c.genres {
			entry := &database.CatalogEntry{PeliculaID: m.ID, GeneroID: genreID[g]}
			if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
				t.Fatalf("insert catalog entry: %v", err)
			}
		}
	}
	return ids
}

func TestRepositoryListByGenre(t *testing.T) {
	for _, driver := range testinfra.Drivers {
		t.Run(driver, func(t *testing.T) {
			db := testinfra.StartDatabase(t, driver)
			repo := NewRepository(db)
			ids := seedCatalog(t, db)
			ctx := context.Background()

			for _, name := range []string{"terror", "TERROR", "Terror"} {
				got, err := repo.ListByGenre(ctx, name)
				if err != nil {
					t.Fatalf("ListByGenre(%q) error = %v", name, err)
				}
				if len(got) != 2 || got[0].ID != ids["Alien"] || got[1].ID != ids["Scream"] {
					t.Fatalf("ListByGenre(%q) = %+v, want Alien and Scream", name, got)
				}
				if len(got[1].Generos) != 2 {
					t.Errorf("Scream genres = %+v, want both", got[1].Generos)
				}
			}

			for _, name := range []string{"Comedia", "%", "Terr"} {
				got, err := repo.ListByGenre(ctx, name)
				if err != nil {
					t.Fatalf("ListByGenre(%q) error = %v", name, err)
				}
				if len(got) != 0 {
					t.Errorf("ListByGenre(%q) = %+v, want empty", name, got)
				}
			}
		})
	}
}
