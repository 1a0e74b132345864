package sqlite

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/tobibamidele/notekeep/store/sqlstore"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore implements the Store interface for SQLite
type SQLiteStore struct {
	*sqlstore.Store
}

// Dialect returns the sqlstore settings for SQLite
func Dialect() sqlstore.Dialect {
	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sqlstore.Dialect{
		Goose:             "sqlite3",
		Migrations:        migrations,
		IsUniqueViolation: isUniqueViolation,
	}
}

// New creates a new SQLite store
func New(connectionURL string, maxOpenConns, maxIdleConns int, connMaxLife time.Duration, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sqlstore.Open("sqlite3", withForeignKeys(connectionURL), maxOpenConns, maxIdleConns, connMaxLife)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{Store: sqlstore.New(db, Dialect(), logger)}, nil
}

// withForeignKeys turns on foreign key enforcement for every pooled
// connection, not just the first one.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_foreign_keys=on", dsn, sep)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
