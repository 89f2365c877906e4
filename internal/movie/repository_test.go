package movie

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/maraton/maraton-api/internal/database"
)

func TestByGenreQueryMatchesIgnoringCase(t *testing.T) {
	sqlDB, err := sql.Open("postgres", "host=localhost dbname=maraton sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	db := database.NewBunDB(sqlDB, "postgres")

	var rows []database.Movie
	q := byGenreQuery(db, &rows, "terror").String()
	for _, want := range []string{
		"JOIN generos AS g2 ON g2.id = c.genero_id",
		"LOWER(g2.nombre) = LOWER('terror')",
		"ORDER BY p.id ASC",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}

	q = byGenreQuery(db, &rows, "Sci'Fi %").String()
	if !strings.Contains(q, "LOWER('Sci''Fi %')") {
		t.Errorf("name not bound as a literal:\n%s", q)
	}
}
