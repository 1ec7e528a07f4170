/*
Package sqlstore provides a SQL-backed implementation of ledger.Store.

PURPOSE:
  Keeps the two ledger collections as JSON documents in a relational
  database. SQLite is the default. PostgreSQL uses the same schema and
  queries, only the placeholder syntax differs.

KEY TABLES:
  documents:   doc_key -> JSON body (one row per collection)
  ledger_meta: single row holding the version counter

VERSIONING:
  Every write bumps ledger_meta.version inside the same database
  transaction. Commit only succeeds when the version still equals the one
  the snapshot was loaded at:

    UPDATE ledger_meta SET version = version + 1
    WHERE id = 1 AND version = ?

  Zero rows affected means another writer got there first and the whole
  transaction is rolled back with ledger.ErrConcurrentModification.

MIGRATIONS:
  Versioned with goose, embedded in the binary and applied on New().

CONCURRENCY:
  Uses sync.RWMutex for the SQLite case (single connection). PostgreSQL
  relies on row locks on ledger_meta plus the version check.

USAGE:
  store, err := sqlstore.NewSQLite("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definition
  - ledger/codec.go: Document encoding
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver names accepted by New.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store implements ledger.Store on database/sql.
type Store struct {
	db     *sql.DB
	driver string
	mu     sync.RWMutex
}

// NewSQLite opens a SQLite database. Use ":memory:" for an in-memory database.
func NewSQLite(dbPath string) (*Store, error) {
	return New(DriverSQLite, dbPath+"?_foreign_keys=on&_journal_mode=WAL")
}

// NewPostgres opens a PostgreSQL database from a lib/pq DSN.
func NewPostgres(dsn string) (*Store, error) {
	return New(DriverPostgres, dsn)
}

// New opens the database and applies pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, driver: driver}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	dialect := goose.DialectSQLite3
	if s.driver == DriverPostgres {
		dialect = goose.DialectPostgres
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, s.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// =============================================================================
// LEDGER STORE (ledger.Store interface)
// =============================================================================

// Load reads the version and both documents in one read transaction.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.driver == DriverPostgres})
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	var snap ledger.Snapshot
	if err := sqlTx.QueryRowContext(ctx, "SELECT version FROM ledger_meta WHERE id = 1").Scan(&snap.Version); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to read version: %w", err)
	}

	rows, err := sqlTx.QueryContext(ctx, s.rebind("SELECT doc_key, body FROM documents WHERE doc_key IN (?, ?)"),
		ledger.CustomersKey, ledger.TransactionsKey)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[string][]byte, 2)
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return ledger.Snapshot{}, fmt.Errorf("failed to scan document: %w", err)
		}
		docs[key] = []byte(body)
	}
	if err := rows.Err(); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to read documents: %w", err)
	}

	snap.Initialized = len(docs) > 0
	if snap.Customers, err = ledger.DecodeCustomers(docs[ledger.CustomersKey]); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.Transactions, err = ledger.DecodeTransactions(docs[ledger.TransactionsKey]); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

// SaveCustomers replaces the customer document. Last writer wins.
func (s *Store) SaveCustomers(ctx context.Context, customers []ledger.Customer) error {
	body, err := ledger.EncodeCustomers(customers)
	if err != nil {
		return fmt.Errorf("failed to encode customers: %w", err)
	}
	return s.write(ctx, nil, map[string][]byte{ledger.CustomersKey: body})
}

// SaveTransactions replaces the transaction document. Last writer wins.
func (s *Store) SaveTransactions(ctx context.Context, txs []ledger.Transaction) error {
	body, err := ledger.EncodeTransactions(txs)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	return s.write(ctx, nil, map[string][]byte{ledger.TransactionsKey: body})
}

// Commit replaces both documents atomically if the version matches.
func (s *Store) Commit(ctx context.Context, snap ledger.Snapshot) error {
	customers, err := ledger.EncodeCustomers(snap.Customers)
	if err != nil {
		return fmt.Errorf("failed to encode customers: %w", err)
	}
	txs, err := ledger.EncodeTransactions(snap.Transactions)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	expected := snap.Version
	return s.write(ctx, &expected, map[string][]byte{
		ledger.CustomersKey:    customers,
		ledger.TransactionsKey: txs,
	})
}

// Clear deletes both documents and bumps the version so stale snapshots
// can no longer be committed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := sqlTx.ExecContext(ctx, "UPDATE ledger_meta SET version = version + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to bump version: %w", err)
	}
	return sqlTx.Commit()
}

// write upserts documents and bumps the version in one transaction. When
// expected is set the version must still match it.
func (s *Store) write(ctx context.Context, expected *int64, docs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if expected != nil {
		res, err := sqlTx.ExecContext(ctx,
			s.rebind("UPDATE ledger_meta SET version = version + 1 WHERE id = 1 AND version = ?"), *expected)
		if err != nil {
			return fmt.Errorf("failed to bump version: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check version: %w", err)
		}
		if n == 0 {
			return ledger.ErrConcurrentModification
		}
	} else {
		if _, err := sqlTx.ExecContext(ctx, "UPDATE ledger_meta SET version = version + 1 WHERE id = 1"); err != nil {
			return fmt.Errorf("failed to bump version: %w", err)
		}
	}

	query := s.rebind(`
		INSERT INTO documents (doc_key, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (doc_key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`)
	now := time.Now().UTC().Format(time.RFC3339)
	for key, body := range docs {
		if _, err := sqlTx.ExecContext(ctx, query, key, string(body), now); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	return sqlTx.Commit()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
