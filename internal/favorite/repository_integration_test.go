//go:build integration

package favorite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
	"github.com/maraton/maraton-api/internal/testinfra"
)

func seedPair(t *testing.T, db *bun.DB) (userID, movieID int64) {
	t.Helper()
	ctx := context.Background()

	u := &database.User{
		Email:           "a@b.com",
		PasswordHash:    "hash",
		Username:        "alice",
		FechaNacimiento: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := db.NewInsert().Model(u).Exec(ctx); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	m := &database.Movie{Titulo: "Alien", Duracion: 117, Largometraje: "https://cdn/alien.mp4", Disponible: true}
	if _, err := db.NewInsert().Model(m).Exec(ctx); err != nil {
		t.Fatalf("insert movie: %v", err)
	}
	return u.ID, m.ID
}

func countPreferences(t *testing.T, db *bun.DB, userID, movieID int64) int {
	t.Helper()
	n, err := db.NewSelect().
		Model((*database.Preference)(nil)).
		Where("user_id = ? AND pelicula_id = ?", userID, movieID).
		Count(context.Background())
	if err != nil {
		t.Fatalf("count preferences: %v", err)
	}
	return n
}

func TestRepositorySetFavorite(t *testing.T) {
	for _, driver := range testinfra.Drivers {
		t.Run(driver, func(t *testing.T) {
			db := testinfra.StartDatabase(t, driver)
			repo := NewRepository(db)
			ctx := context.Background()
			userID, movieID := seedPair(t, db)

			created, err := repo.SetFavorite(ctx, userID, movieID, true)
			if err != nil {
				t.Fatalf("SetFavorite() error = %v", err)
			}
			if !created {
				t.Error("first SetFavorite should create the row")
			}

			list, err := repo.ListFavorites(ctx, userID)
			if err != nil {
				t.Fatalf("ListFavorites() error = %v", err)
			}
			if len(list) != 1 || list[0].ID != movieID {
				t.Fatalf("ListFavorites() = %+v, want movie %d", list, movieID)
			}

			for _, favorito := range []bool{false, false, true, false} {
				created, err := repo.SetFavorite(ctx, userID, movieID, favorito)
				if err != nil {
					t.Fatalf("SetFavorite(%v) error = %v", favorito, err)
				}
				if created {
					t.Errorf("SetFavorite(%v) on an existing pair reported created", favorito)
				}
			}

			if n := countPreferences(t, db, userID, movieID); n != 1 {
				t.Errorf("rows for pair = %d, want 1", n)
			}
			list, err = repo.ListFavorites(ctx, userID)
			if err != nil {
				t.Fatalf("ListFavorites() error = %v", err)
			}
			if len(list) != 0 {
				t.Errorf("ListFavorites() after unmarking = %+v, want empty", list)
			}
		})
	}
}

func TestRepositorySetFavoriteConcurrent(t *testing.T) {
	for _, driver := range testinfra.Drivers {
		t.Run(driver, func(t *testing.T) {
			db := testinfra.StartDatabase(t, driver)
			repo := NewRepository(db)
			userID, movieID := seedPair(t, db)

			const workers = 8
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				creates int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					created, err := repo.SetFavorite(context.Background(), userID, movieID, true)
					if err != nil {
						t.Errorf("SetFavorite() error = %v", err)
						return
					}
					if created {
						mu.Lock()
						creates++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if creates != 1 {
				t.Errorf("created reported %d times, want 1", creates)
			}
			if n := countPreferences(t, db, userID, movieID); n != 1 {
				t.Errorf("rows for pair = %d, want 1", n)
			}
		})
	}
}
