package sqlstore

import (
	"fmt"
	"strings"
)

// dialect captures the per-engine SQL differences: driver registration name,
// auto-increment column syntax, and insert-if-absent syntax.
type dialect struct {
	driver            string
	autoIncrementPK   string
	insertOrderIgnore string
}

var (
	sqliteDialect = dialect{
		driver:            "sqlite3",
		autoIncrementPK:   "INTEGER PRIMARY KEY AUTOINCREMENT",
		insertOrderIgnore: "INSERT INTO orders (code, created_at) VALUES (?, ?) ON CONFLICT (code) DO NOTHING",
	}

	postgresDialect = dialect{
		driver:            "pgx",
		autoIncrementPK:   "BIGSERIAL PRIMARY KEY",
		insertOrderIgnore: "INSERT INTO orders (code, created_at) VALUES (?, ?) ON CONFLICT (code) DO NOTHING",
	}

	mysqlDialect = dialect{
		driver:            "mysql",
		autoIncrementPK:   "BIGINT AUTO_INCREMENT PRIMARY KEY",
		insertOrderIgnore: "INSERT IGNORE INTO orders (code, created_at) VALUES (?, ?)",
	}
)

// resolveDSN maps a connection string onto a dialect and the DSN the driver
// expects. Anything without a recognised scheme is treated as a SQLite file
// path, which keeps the default `file:./data.db` working out of the box.
func resolveDSN(dsn string) (dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgresDialect, dsn, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysqlDialect, mysqlDriverDSN(strings.TrimPrefix(dsn, "mysql://")), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqliteDialect, strings.TrimPrefix(dsn, "sqlite://"), nil
	case dsn == "":
		return dialect{}, "", fmt.Errorf("empty database connection string")
	default:
		return sqliteDialect, dsn, nil
	}
}

// mysqlDriverDSN ensures timestamps scan into time.Time.
func mysqlDriverDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}

// schemaStatements returns the startup DDL. Tables are created if absent; no
// migration mechanism exists beyond this.
func (d dialect) schemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS orders (
			code VARCHAR(64) PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS payments (
			id %s,
			order_code VARCHAR(64) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, d.autoIncrementPK),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
			id %s,
			order_code VARCHAR(64) NOT NULL,
			kind VARCHAR(64) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, d.autoIncrementPK),
	}
}
