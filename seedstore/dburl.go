package seedstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Supported database dialects
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

var (
	ErrUnknownDialect = errors.New("unknown database dialect")
	ErrInvalidURL     = errors.New("invalid database URL")
)

// InferDialect returns the dialect ("postgres", "mysql", or "sqlite") based
// on the URL scheme.
func InferDialect(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, u.Scheme)
	}
}

// driverConfig returns the database/sql driver name and DSN for a URL.
func driverConfig(dbURL string) (driver, dsn string, err error) {
	dialect, err := InferDialect(dbURL)
	if err != nil {
		return "", "", err
	}

	switch dialect {
	case DialectPostgres:
		return "pgx", dbURL, nil
	case DialectMySQL:
		dsn, err := mysqlDSN(dbURL)
		return "mysql", dsn, err
	default:
		return "sqlite", sqlitePath(dbURL), nil
	}
}

// mysqlDSN converts a mysql:// URL to a go-sql-driver/mysql DSN.
func mysqlDSN(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	cfg := mysql.NewConfig()
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	if u.Host != "" {
		cfg.Net = "tcp"
		cfg.Addr = u.Host
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if len(u.Query()) > 0 {
		cfg.Params = map[string]string{}
		for k, v := range u.Query() {
			cfg.Params[k] = v[0]
		}
	}
	return cfg.FormatDSN(), nil
}

// sqlitePath extracts the file path from sqlite:///abs/path, sqlite:rel/path
// or sqlite::memory:.
func sqlitePath(dbURL string) string {
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if strings.HasPrefix(dbURL, prefix) {
			return strings.TrimPrefix(dbURL, prefix)
		}
	}
	return dbURL
}
