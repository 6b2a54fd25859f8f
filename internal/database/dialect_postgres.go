package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

// postgresAppName shows up in pg_stat_activity for server connections
const postgresAppName = "studyreview"

// PostgresDialect targets PostgreSQL through lib/pq
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DSN converts a postgres:// URL into lib/pq's key=value form and tags the
// connection with the application name unless DATABASE_URL sets one.
// An unparsable URL is passed through and fails at Ping.
func (d *PostgresDialect) DSN(config DialectConfig) string {
	dsn := strings.TrimSpace(config.URL)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return config.URL
		}
		dsn = converted
	}
	if dsn == "" || strings.Contains(dsn, "application_name=") {
		return dsn
	}
	return dsn + " application_name=" + postgresAppName
}

// RewriteQuery numbers the ? placeholders
func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

// SupportsLastInsertId is false; inserts get RETURNING id appended instead
func (d *PostgresDialect) SupportsLastInsertId() bool {
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL UNIQUE,
			executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
}

// BoolValue renders a boolean literal for done/reminder filters
func (d *PostgresDialect) BoolValue(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
