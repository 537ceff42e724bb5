package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailops/order-intake/internal/domain"
	"github.com/retailops/order-intake/internal/repository"

	// Database drivers selected by connection-string scheme.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	OrderResource = "order"
)

// Store provides database operations for orders, payments and events on top
// of any of the supported SQL engines. Payments and events are append-only;
// orders are write-once.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database described by the connection string, verifies
// connectivity, and creates the schema if absent.
func Open(ctx context.Context, dsn string) (*Store, error) {
	d, driverDSN, err := resolveDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("resolve dsn: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, d.driver, driverDSN)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", d.driver, err)
	}

	for _, stmt := range d.schemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetOrder retrieves an order by its code.
func (s *Store) GetOrder(ctx context.Context, code string) (*domain.Order, error) {
	var order domain.Order
	query := s.db.Rebind("SELECT code, created_at FROM orders WHERE code = ?")

	err := s.db.GetContext(ctx, &order, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &repository.NotFoundError{
				Resource: OrderResource,
				Key:      "code",
				Value:    code,
			}
		}
		return nil, &repository.StorageError{Op: "get order", Err: err}
	}

	return &order, nil
}

// CreateOrderIfAbsent inserts an order row unless one already exists for the
// code. The check-then-insert is a single insert-ignore statement, so it is
// atomic under concurrent creates. Returns whether a new row was inserted.
func (s *Store) CreateOrderIfAbsent(ctx context.Context, code string, createdAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(s.dialect().insertOrderIgnore), code, createdAt)
	if err != nil {
		return false, &repository.StorageError{Op: "create order", Err: err}
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, &repository.StorageError{Op: "create order", Err: err}
	}

	return inserted > 0, nil
}

// AppendPayment inserts a payment row, auto-creating the referenced order in
// the same transaction when it does not exist yet.
func (s *Store) AppendPayment(ctx context.Context, orderCode string, amount float64, createdAt time.Time) error {
	return s.appendWithOrder(ctx, orderCode, createdAt,
		"INSERT INTO payments (order_code, amount, created_at) VALUES (?, ?, ?)",
		orderCode, amount, createdAt)
}

// AppendEvent inserts an event row, auto-creating the referenced order in the
// same transaction when it does not exist yet.
func (s *Store) AppendEvent(ctx context.Context, orderCode string, kind domain.EventKind, createdAt time.Time) error {
	return s.appendWithOrder(ctx, orderCode, createdAt,
		"INSERT INTO events (order_code, kind, created_at) VALUES (?, ?, ?)",
		orderCode, string(kind), createdAt)
}

// ListPayments returns every payment, ordered by insertion id.
func (s *Store) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	payments := make([]domain.Payment, 0)
	query := "SELECT id, order_code, amount, created_at FROM payments ORDER BY id"

	if err := s.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, &repository.StorageError{Op: "list payments", Err: err}
	}

	return payments, nil
}

// ListEvents returns every event, ordered by insertion id.
func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	query := "SELECT id, order_code, kind, created_at FROM events ORDER BY id"

	if err := s.db.SelectContext(ctx, &events, query); err != nil {
		return nil, &repository.StorageError{Op: "list events", Err: err}
	}

	return events, nil
}

// appendWithOrder runs the ensure-order-then-append sequence in one
// transaction, preserving the atomicity of auto-vivification.
func (s *Store) appendWithOrder(ctx context.Context, orderCode string, createdAt time.Time, insert string, args ...any) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &repository.StorageError{Op: "begin append", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.db.Rebind(s.dialect().insertOrderIgnore), orderCode, createdAt); err != nil {
		return &repository.StorageError{Op: "ensure order", Err: err}
	}

	if _, err := tx.ExecContext(ctx, s.db.Rebind(insert), args...); err != nil {
		return &repository.StorageError{Op: "append", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &repository.StorageError{Op: "commit append", Err: err}
	}

	return nil
}

func (s *Store) dialect() dialect {
	switch s.db.DriverName() {
	case "pgx":
		return postgresDialect
	case "mysql":
		return mysqlDialect
	default:
		return sqliteDialect
	}
}
