package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/maraton/maraton-api/internal/config"
)

// Open connects to the configured driver, verifies the connection and wraps
// it in a bun.DB with the matching dialect.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Driver {
	case "mysql":
		sqlDB, err = sql.Open("mysql", MySQLDSN(cfg))
	default:
		sqlDB, err = sql.Open("postgres", cfg.ConnectionString())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return NewBunDB(sqlDB, cfg.Driver), nil
}

// NewBunDB wraps an existing sql.DB. The m2m join model is registered here
// so every caller gets working Movie.Genres relations.
func NewBunDB(sqlDB *sql.DB, driver string) *bun.DB {
	var db *bun.DB
	if driver == "mysql" {
		db = bun.NewDB(sqlDB, mysqldialect.New())
	} else {
		db = bun.NewDB(sqlDB, pgdialect.New())
	}
	db.RegisterModel((*CatalogEntry)(nil))
	return db
}

// MySQLDSN builds a go-sql-driver DSN with time parsing enabled
func MySQLDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	// report matched rather than changed rows so no-op updates are not 404s
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// IsMySQL reports whether db speaks the MySQL dialect
func IsMySQL(db bun.IDB) bool {
	return db.Dialect().Name() == dialect.MySQL
}
