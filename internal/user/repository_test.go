package user

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/maraton/maraton-api/internal/database"
)

func TestConsumeResetTokenQuery(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			dsn := "host=localhost dbname=maraton sslmode=disable"
			if driver == "mysql" {
				dsn = "root@tcp(localhost:3306)/maraton"
			}
			sqlDB, err := sql.Open(driver, dsn)
			if err != nil {
				t.Fatal(err)
			}
			defer sqlDB.Close()

			now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
			q := consumeResetTokenQuery(database.NewBunDB(sqlDB, driver), 3, "tok-1", "$2a$hash", now).String()

			for _, want := range []string{
				"reset_password_token = NULL",
				"reset_password_expires = NULL",
				"(id = 3)",
				"(reset_password_token = 'tok-1')",
				"(reset_password_expires > '2025-03-01",
			} {
				if !strings.Contains(q, want) {
					t.Errorf("query missing %q:\n%s", want, q)
				}
			}
		})
	}
}
