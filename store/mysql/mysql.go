package mysql

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/tobibamidele/notekeep/store/sqlstore"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ER_DUP_ENTRY
const duplicateEntry = 1062

// MySQLStore implements the Store interface for MySQL
type MySQLStore struct {
	*sqlstore.Store
}

// Dialect returns the sqlstore settings for MySQL
func Dialect() sqlstore.Dialect {
	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sqlstore.Dialect{
		Goose:             "mysql",
		Migrations:        migrations,
		IsUniqueViolation: isUniqueViolation,
	}
}

// New creates a new MySQL store
func New(connectionURL string, maxOpenConns, maxIdleConns int, connMaxLife time.Duration, logger *zap.Logger) (*MySQLStore, error) {
	dsn, err := normalizeDSN(connectionURL)
	if err != nil {
		return nil, err
	}
	db, err := sqlstore.Open("mysql", dsn, maxOpenConns, maxIdleConns, connMaxLife)
	if err != nil {
		return nil, err
	}
	return &MySQLStore{Store: sqlstore.New(db, Dialect(), logger)}, nil
}

// normalizeDSN forces the options the store depends on: DATETIME columns
// scanned as time.Time in UTC, and RowsAffected counting matched rows so an
// UPDATE that writes identical values is not mistaken for a missing row.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func isUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == duplicateEntry
}
