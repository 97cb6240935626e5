package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"missioncore/internal/adapter/archive"
	"missioncore/internal/app/ports"
	"missioncore/internal/domain/ledger"
)

// Archive keeps every export of a ledger as a row in ledger_exports.
type Archive struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

func Open(path string) (*Archive, error) {
	if path == "" {
		path = "missioncore-archive.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ledger_exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ledger_id TEXT NOT NULL,
		head TEXT NOT NULL,
		entries INTEGER NOT NULL,
		archived_at INTEGER NOT NULL,
		document BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger_exports table: %w", err)
	}
	return &Archive{db: db, path: path, now: time.Now}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

func (a *Archive) Put(ctx context.Context, ledgerID string, entries []ledger.Entry) (ports.ArchiveReceipt, error) {
	at := a.now().UTC()
	doc := archive.NewDocument(ledgerID, entries, at)
	body, err := doc.Encode()
	if err != nil {
		return ports.ArchiveReceipt{}, err
	}
	res, err := a.db.ExecContext(ctx,
		`INSERT INTO ledger_exports(ledger_id, head, entries, archived_at, document) VALUES (?, ?, ?, ?, ?)`,
		ledgerID, doc.Head, len(entries), at.UnixMilli(), body,
	)
	if err != nil {
		return ports.ArchiveReceipt{}, fmt.Errorf("insert ledger export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ports.ArchiveReceipt{}, fmt.Errorf("ledger export id: %w", err)
	}
	return ports.ArchiveReceipt{
		Location:   fmt.Sprintf("sqlite://%s#%d", a.path, id),
		Entries:    len(entries),
		Head:       doc.Head,
		ArchivedAt: at,
	}, nil
}

// Load returns the most recent export of ledgerID.
func (a *Archive) Load(ctx context.Context, ledgerID string) (archive.Document, error) {
	var body []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT document FROM ledger_exports WHERE ledger_id = ? ORDER BY id DESC LIMIT 1`,
		ledgerID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return archive.Document{}, fmt.Errorf("ledger export %s: %w", ledgerID, ports.ErrNotFound)
	}
	if err != nil {
		return archive.Document{}, fmt.Errorf("select ledger export: %w", err)
	}
	return archive.Decode(body)
}

// LedgerIDs lists every ledger with at least one export.
func (a *Archive) LedgerIDs(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT DISTINCT ledger_id FROM ledger_exports ORDER BY ledger_id`)
	if err != nil {
		return nil, fmt.Errorf("select ledger ids: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
