// Package sqlite stores the session record in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/kyc/internal/session"
	_ "modernc.org/sqlite"
)

// Persister keeps one row per record name.
type Persister struct {
	db   *sql.DB
	name string
}

// Open opens dsn and applies pending migrations.
func Open(dsn string) (*Persister, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Writers queue instead of failing with SQLITE_BUSY.
	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	p := &Persister{db: db, name: session.RecordName}
	if err := p.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return p, nil
}

func (p *Persister) Close() error { return p.db.Close() }

// Ping verifies the database connection is still alive.
func (p *Persister) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Persister) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM session_records WHERE name = ?`, p.name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load: %w", err)
	}
	return payload, nil
}

func (p *Persister) Save(ctx context.Context, record []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO session_records (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		p.name, record, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save: %w", err)
	}
	return nil
}

func (p *Persister) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM session_records WHERE name = ?`, p.name); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}
	return nil
}
