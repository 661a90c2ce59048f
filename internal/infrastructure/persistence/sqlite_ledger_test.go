package persistence

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"netprofile-agent/internal/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netprofile.db")
	db, err := OpenDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func staticSnapshot(iface string) entities.Snapshot {
	return entities.Snapshot{
		Interface: iface,
		Config: entities.NetworkConfig{
			Mode:       entities.ModeStatic,
			Address:    "192.168.1.10",
			SubnetMask: "255.255.255.0",
			Gateway:    "192.168.1.1",
			DNSServers: []string{"8.8.8.8", "1.1.1.1"},
		},
		CapturedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteUndoLedger_RecordAndGet(t *testing.T) {
	db, _ := openTestDB(t)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	snapshot := staticSnapshot("eth0")
	require.NoError(t, ledger.Record(ctx, snapshot))

	got, err := ledger.Get(ctx, "eth0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "eth0", got.Interface)
	assert.True(t, got.Config.Equal(snapshot.Config))
	assert.True(t, got.CapturedAt.Equal(snapshot.CapturedAt))
	// DNS order must survive storage exactly
	assert.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, got.Config.DNSServers)
}

func TestSQLiteUndoLedger_GetMissingReturnsNil(t *testing.T) {
	db, _ := openTestDB(t)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	got, err := ledger.Get(context.Background(), "ghost0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteUndoLedger_RecordOverwritesSingleSlot(t *testing.T) {
	db, _ := openTestDB(t)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	first := staticSnapshot("eth0")
	require.NoError(t, ledger.Record(ctx, first))

	second := entities.Snapshot{
		Interface:  "eth0",
		Config:     entities.NetworkConfig{Mode: entities.ModeDHCP},
		CapturedAt: first.CapturedAt.Add(time.Hour),
	}
	require.NoError(t, ledger.Record(ctx, second))

	got, err := ledger.Get(ctx, "eth0")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entities.ModeDHCP, got.Config.Mode)
	assert.True(t, got.CapturedAt.Equal(second.CapturedAt))
}

func TestSQLiteUndoLedger_SlotsArePerInterface(t *testing.T) {
	db, _ := openTestDB(t)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ledger.Record(ctx, staticSnapshot("eth0")))
	require.NoError(t, ledger.Record(ctx, entities.Snapshot{
		Interface: "eth1",
		Config:    entities.NetworkConfig{Mode: entities.ModeDHCP},
	}))

	require.NoError(t, ledger.Clear(ctx, "eth0"))

	got, err := ledger.Get(ctx, "eth0")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ledger.Get(ctx, "eth1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestSQLiteUndoLedger_ClearMissingIsNotAnError(t *testing.T) {
	db, _ := openTestDB(t)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	assert.NoError(t, ledger.Clear(context.Background(), "ghost0"))
}

func TestSQLiteUndoLedger_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netprofile.db")

	db, err := OpenDatabase(path)
	require.NoError(t, err)
	ledger, err := NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)
	require.NoError(t, ledger.Record(context.Background(), staticSnapshot("eth0")))
	require.NoError(t, db.Close())

	// simulate a process restart
	db, err = OpenDatabase(path)
	require.NoError(t, err)
	defer db.Close()
	ledger, err = NewSQLiteUndoLedger(db, quietLogger())
	require.NoError(t, err)

	got, err := ledger.Get(context.Background(), "eth0")
	require.NoError(t, err)
	require.NotNil(t, got, "the undo record must survive a restart")
	assert.Equal(t, "192.168.1.10", got.Config.Address)
}
