package sql

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/genericbot/genericbot/logger"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var embeddedMigrations embed.FS

var log = logger.New("sql")

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

// New connects to MySQL and applies pending migrations. Times are read and
// written as UTC.
func New() (*sqlx.DB, error) {
	connectionString := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&tls=%s",
		strings.TrimSpace(os.Getenv("MYSQL_USER")),
		strings.TrimSpace(os.Getenv("MYSQL_PASSWORD")),
		getenv("MYSQL_HOST", "localhost"),
		getenv("MYSQL_PORT", "3306"),
		strings.TrimSpace(os.Getenv("MYSQL_DB")),
		getenv("MYSQL_TLS", "false"),
	)

	db, err := sqlx.Connect("mysql", connectionString)
	if err != nil {
		return nil, err
	}

	_, ignoreMigration := os.LookupEnv("IGNORE_SQL_MIGRATION")
	if !ignoreMigration {
		migrationSource := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
		applied, err := migrate.Exec(db.DB, "mysql", migrationSource, migrate.Up)
		if err != nil {
			return nil, err
		}
		if applied > 0 {
			log.Info().Int("count", applied).Msg("Applied migrations")
		}
	}

	db.SetMaxIdleConns(100)
	db.SetMaxOpenConns(100)
	db.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
