package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"netprofile-agent/internal/domain/entities"
)

// SQLiteUndoLedger stores the single undo snapshot per interface.
// A new Record for the same interface overwrites the previous row.
type SQLiteUndoLedger struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewSQLiteUndoLedger creates the ledger and its table if missing.
func NewSQLiteUndoLedger(db *sql.DB, logger *logrus.Logger) (*SQLiteUndoLedger, error) {
	const schema = `
		CREATE TABLE IF NOT EXISTS undo_ledger (
			interface_name TEXT PRIMARY KEY,
			mode           TEXT NOT NULL,
			address        TEXT NOT NULL DEFAULT '',
			subnet_mask    TEXT NOT NULL DEFAULT '',
			gateway        TEXT NOT NULL DEFAULT '',
			dns_servers    TEXT NOT NULL DEFAULT '',
			captured_at    TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create undo_ledger table: %w", err)
	}
	return &SQLiteUndoLedger{db: db, logger: logger}, nil
}

// Record persists the snapshot for its interface, replacing any prior one.
// The write is committed before the caller touches the interface.
func (l *SQLiteUndoLedger) Record(ctx context.Context, snapshot entities.Snapshot) error {
	const query = `
		INSERT INTO undo_ledger
			(interface_name, mode, address, subnet_mask, gateway, dns_servers, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(interface_name) DO UPDATE SET
			mode = excluded.mode,
			address = excluded.address,
			subnet_mask = excluded.subnet_mask,
			gateway = excluded.gateway,
			dns_servers = excluded.dns_servers,
			captured_at = excluded.captured_at`

	cfg := snapshot.Config
	_, err := l.db.ExecContext(ctx, query,
		snapshot.Interface,
		string(cfg.Mode),
		cfg.Address,
		cfg.SubnetMask,
		cfg.Gateway,
		joinDNS(cfg.DNSServers),
		snapshot.CapturedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record undo snapshot for %s: %w", snapshot.Interface, err)
	}

	l.logger.WithFields(logrus.Fields{
		"interface": snapshot.Interface,
		"mode":      cfg.Mode,
	}).Debug("Undo snapshot recorded")
	return nil
}

// Get returns the stored snapshot for the interface, or nil when none exists.
func (l *SQLiteUndoLedger) Get(ctx context.Context, ifaceName string) (*entities.Snapshot, error) {
	const query = `
		SELECT mode, address, subnet_mask, gateway, dns_servers, captured_at
		FROM undo_ledger WHERE interface_name = ?`

	var (
		mode, address, mask, gateway, dns, capturedAt string
	)
	err := l.db.QueryRowContext(ctx, query, ifaceName).
		Scan(&mode, &address, &mask, &gateway, &dns, &capturedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read undo snapshot for %s: %w", ifaceName, err)
	}

	ts, err := time.Parse(time.RFC3339Nano, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt captured_at for %s: %w", ifaceName, err)
	}

	return &entities.Snapshot{
		Interface: ifaceName,
		Config: entities.NetworkConfig{
			Mode:       entities.Mode(mode),
			Address:    address,
			SubnetMask: mask,
			Gateway:    gateway,
			DNSServers: splitDNS(dns),
		},
		CapturedAt: ts,
	}, nil
}

// Clear removes the snapshot after a successful undo. Clearing an
// interface with no snapshot is not an error.
func (l *SQLiteUndoLedger) Clear(ctx context.Context, ifaceName string) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM undo_ledger WHERE interface_name = ?`, ifaceName)
	if err != nil {
		return fmt.Errorf("failed to clear undo snapshot for %s: %w", ifaceName, err)
	}
	return nil
}

func joinDNS(servers []string) string {
	return strings.Join(servers, ",")
}

func splitDNS(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
