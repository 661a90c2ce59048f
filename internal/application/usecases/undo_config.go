package usecases

import (
	"context"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Undo restores the single retained pre-change snapshot for an interface.
// It reuses the apply machinery but deliberately skips the snapshot and
// record steps: re-snapshotting here would overwrite the only way back.
// Undo is single-use; the ledger entry clears on success.
func (e *TransactionEngine) Undo(ctx context.Context, iface string) (*entities.TransactionResult, error) {
	result := &entities.TransactionResult{
		TransactionID: uuid.NewString(),
		Operation:     entities.OperationUndo,
		Interface:     iface,
	}

	lock := e.interfaceLock(iface)
	lock.Lock()
	defer lock.Unlock()

	start := e.clock.Now()
	log := e.logger.WithFields(logrus.Fields{
		"transaction_id": result.TransactionID,
		"interface":      iface,
	})

	snapshot, err := e.ledger.Get(ctx, iface)
	if err != nil {
		e.observer.UpdateLedgerHealth(false, err)
		derr := errors.NewSystemError("undo ledger read failed", err)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}
	if snapshot == nil {
		derr := errors.NewNoUndoError("no snapshot retained for interface")
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}

	completed, err := e.runIntents(ctx, result.TransactionID, entities.IntentsFor(iface, snapshot.Config))
	result.Completed = completed
	if err != nil {
		// The entry stays in the ledger: the OS left the interface wherever
		// it is, and the caller decides whether to retry the undo.
		result.Partial = len(completed) > 0
		result.TimedOut = errors.IsTimeoutError(err)
		result.MessageKey = errors.KeyOf(err)
		result.Detail = err.Error()
		log.WithError(err).Error("undo transaction failed")
		e.finish(result, start, err)
		return result, err
	}

	result.Warnings = e.verify(ctx, iface, snapshot.Config)

	if err := e.ledger.Clear(ctx, iface); err != nil {
		log.WithError(err).Warn("undo succeeded but the ledger entry could not be cleared")
		result.Warnings = append(result.Warnings, "undo_clear_failed")
	}

	restored := snapshot.Config.Normalized()
	result.AppliedConfig = &restored
	result.Success = true
	result.MessageKey = "undo_done"
	e.finish(result, start, nil)

	log.WithFields(logrus.Fields{
		"restored": restored.String(),
		"captured": snapshot.CapturedAt,
	}).Info("undo transaction committed")
	return result, nil
}
