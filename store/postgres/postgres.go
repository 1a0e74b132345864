package postgres

import (
	"embed"
	"errors"
	"io/fs"
	"time"

	"github.com/lib/pq"
	"github.com/tobibamidele/notekeep/store/sqlstore"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// PostgreSQL returns SQLSTATE 23505 for unique constraint violations
const uniqueViolation pq.ErrorCode = "23505"

// PostgresStore implements the store interface for PostgreSQL
type PostgresStore struct {
	*sqlstore.Store
}

// Dialect returns the sqlstore settings for PostgreSQL
func Dialect() sqlstore.Dialect {
	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sqlstore.Dialect{
		Goose:             "postgres",
		Numbered:          true,
		Migrations:        migrations,
		IsUniqueViolation: isUniqueViolation,
	}
}

// New creates a new PostgreSQL store
func New(
	connectionURL string,
	maxOpenConns,
	maxIdleConns int,
	connMaxLife time.Duration,
	logger *zap.Logger,
) (*PostgresStore, error) {
	db, err := sqlstore.Open("postgres", connectionURL, maxOpenConns, maxIdleConns, connMaxLife)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{Store: sqlstore.New(db, Dialect(), logger)}, nil
}

// isUniqueViolation is a helper function that does what it's named
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
