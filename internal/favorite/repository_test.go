package favorite

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/maraton/maraton-api/internal/database"
)

// queryDB returns a bun.DB for rendering SQL. It never connects.
func queryDB(t *testing.T, driver string) *bun.DB {
	t.Helper()
	dsn := "host=localhost dbname=maraton sslmode=disable"
	if driver == "mysql" {
		dsn = "root@tcp(localhost:3306)/maraton"
	}
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		t.Fatalf("sql.Open(%s) error = %v", driver, err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return database.NewBunDB(sqlDB, driver)
}

func assertSQL(t *testing.T, query string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(query, f) {
			t.Errorf("query missing %q:\n%s", f, query)
		}
	}
}

func testPreference() *database.Preference {
	return &database.Preference{
		UserID:     7,
		PeliculaID: 42,
		Favorito:   true,
		UpdatedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpsertPreferenceQueryPostgres(t *testing.T) {
	q := upsertPreferenceQuery(queryDB(t, "postgres"), testPreference()).String()

	assertSQL(t, q,
		`INSERT INTO "gustos"`,
		"ON CONFLICT (user_id, pelicula_id) DO UPDATE",
		"SET favorito = EXCLUDED.favorito, updated_at = EXCLUDED.updated_at",
		"RETURNING (xmax = 0) AS created",
	)
	if strings.Contains(q, "visto = ") || strings.Contains(q, "ver_despues = ") {
		t.Errorf("upsert must only overwrite favorito and updated_at:\n%s", q)
	}
}

func TestSetFavoriteMySQLQueries(t *testing.T) {
	db := queryDB(t, "mysql")
	row := testPreference()

	assertSQL(t, insertPreferenceIgnoreQuery(db, row).String(), "INSERT IGNORE INTO `gustos`")
	assertSQL(t, updatePreferenceQuery(db, row).String(),
		"UPDATE `gustos`",
		"favorito = ",
		"(user_id = 7 AND pelicula_id = 42)",
	)
}

func TestFavoritesQueryFiltersByUserAndFlag(t *testing.T) {
	var rows []database.Movie
	q := favoritesQuery(queryDB(t, "postgres"), &rows, 7).String()

	assertSQL(t, q,
		"gu.pelicula_id = p.id AND gu.user_id = 7 AND gu.favorito = TRUE",
		`ORDER BY p.id ASC`,
	)
}
