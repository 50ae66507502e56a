package sqlsource

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

//go:embed schema.sql
var schema string

// Meta keys stored next to the record tables.
const (
	metaBaseURL = "base_url"
	metaSiteURL = "site_url"
	metaSales   = "summary.sales"
	metaProfit  = "summary.profit"
	metaSold    = "summary.sold"
)

// Store keeps the dashboard snapshot in SQLite and serves it to page loads.
type Store struct {
	db *sql.DB
}

var _ backoffice.SnapshotProvider = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlsource: database path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: open %s: %w", path, err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout=5000", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlsource: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlsource: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed replaces the stored snapshot in one transaction.
func (s *Store) Seed(ctx context.Context, snapshot *backoffice.Snapshot) error {
	snapshot = backoffice.NormalizeSnapshot(snapshot)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlsource: begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_meta", "products", "users", "transactions", "applicants"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlsource: clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		metaBaseURL: snapshot.BaseURL,
		metaSiteURL: snapshot.SiteURL,
		metaSales:   snapshot.Summary.Sales,
		metaProfit:  snapshot.Summary.Profit,
		metaSold:    snapshot.Summary.Sold,
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("sqlsource: insert meta %s: %w", key, err)
		}
	}

	for i, p := range snapshot.Products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (position, id, name, category, price, stock_raw, stock_value, stock_known, last_restock)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.ID, p.Name, p.Category, p.Price, p.Stock.Raw, p.Stock.Value, p.Stock.Known, p.LastRestock); err != nil {
			return fmt.Errorf("sqlsource: insert product %s: %w", p.ID, err)
		}
	}
	for i, u := range snapshot.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (position, id, username, email, verified_at) VALUES (?, ?, ?, ?, ?)`,
			i, u.ID, u.Username, u.Email, u.VerifiedAt); err != nil {
			return fmt.Errorf("sqlsource: insert user %s: %w", u.ID, err)
		}
	}
	for i, t := range snapshot.Transactions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (position, id, timestamp, cashier, total, status) VALUES (?, ?, ?, ?, ?, ?)`,
			i, t.ID, t.Timestamp, t.Cashier, t.Total, t.Status); err != nil {
			return fmt.Errorf("sqlsource: insert transaction %s: %w", t.ID, err)
		}
	}
	for i, a := range snapshot.Applicants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO applicants (position, name, job, applied_at, status) VALUES (?, ?, ?, ?, ?)`,
			i, a.Name, a.Position, a.AppliedAt, a.Status); err != nil {
			return fmt.Errorf("sqlsource: insert applicant %s: %w", a.Name, err)
		}
	}
	return tx.Commit()
}

// Snapshot reads the stored snapshot back in seed order.
func (s *Store) Snapshot(ctx context.Context) (*backoffice.Snapshot, error) {
	snap := &backoffice.Snapshot{}

	meta, err := s.meta(ctx)
	if err != nil {
		return nil, err
	}
	snap.BaseURL = meta[metaBaseURL]
	snap.SiteURL = meta[metaSiteURL]
	snap.Summary = backoffice.Summary{Sales: meta[metaSales], Profit: meta[metaProfit], Sold: meta[metaSold]}

	err = s.each(ctx, `SELECT id, name, category, price, stock_raw, stock_value, stock_known, last_restock FROM products ORDER BY position`,
		func(rows *sql.Rows) error {
			var p backoffice.Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock.Raw, &p.Stock.Value, &p.Stock.Known, &p.LastRestock); err != nil {
				return err
			}
			snap.Products = append(snap.Products, p)
			return nil
		})
	if err != nil {
		return nil, err
	}
	err = s.each(ctx, `SELECT id, username, email, verified_at FROM users ORDER BY position`,
		func(rows *sql.Rows) error {
			var u backoffice.User
			if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.VerifiedAt); err != nil {
				return err
			}
			snap.Users = append(snap.Users, u)
			return nil
		})
	if err != nil {
		return nil, err
	}
	err = s.each(ctx, `SELECT id, timestamp, cashier, total, status FROM transactions ORDER BY position`,
		func(rows *sql.Rows) error {
			var t backoffice.Transaction
			if err := rows.Scan(&t.ID, &t.Timestamp, &t.Cashier, &t.Total, &t.Status); err != nil {
				return err
			}
			snap.Transactions = append(snap.Transactions, t)
			return nil
		})
	if err != nil {
		return nil, err
	}
	err = s.each(ctx, `SELECT name, job, applied_at, status FROM applicants ORDER BY position`,
		func(rows *sql.Rows) error {
			var a backoffice.Applicant
			if err := rows.Scan(&a.Name, &a.Position, &a.AppliedAt, &a.Status); err != nil {
				return err
			}
			snap.Applicants = append(snap.Applicants, a)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return backoffice.NormalizeSnapshot(snap), nil
}

func (s *Store) meta(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	err := s.each(ctx, `SELECT key, value FROM snapshot_meta`, func(rows *sql.Rows) error {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		out[key] = value
		return nil
	})
	return out, err
}

func (s *Store) each(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("sqlsource: query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("sqlsource: scan: %w", err)
		}
	}
	return rows.Err()
}
