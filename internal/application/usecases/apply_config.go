package usecases

import (
	"context"
	goerrors "errors"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// validationKey maps an entity validation sentinel to its diagnostic key
func validationKey(err error) string {
	switch {
	case goerrors.Is(err, entities.ErrInvalidMode):
		return "invalid_mode"
	case goerrors.Is(err, entities.ErrInvalidAddress):
		return "invalid_ip"
	case goerrors.Is(err, entities.ErrInvalidSubnetMask):
		return "invalid_mask"
	case goerrors.Is(err, entities.ErrInvalidGateway):
		return "invalid_gateway"
	case goerrors.Is(err, entities.ErrGatewayOutsideSubnet):
		return "gateway_outside_subnet"
	case goerrors.Is(err, entities.ErrInvalidDNSServer):
		return "invalid_dns"
	default:
		return "invalid_config"
	}
}

// Apply runs one configuration transaction against an interface:
// validate, snapshot the live state, record it durably in the undo ledger,
// issue the intent sequence, then verify best-effort. The result always
// carries enough detail for the caller to decide what to do next; partial
// application is reported explicitly, never hidden behind a generic failure.
func (e *TransactionEngine) Apply(ctx context.Context, iface string, cfg entities.NetworkConfig) (*entities.TransactionResult, error) {
	result := &entities.TransactionResult{
		TransactionID: uuid.NewString(),
		Operation:     entities.OperationApply,
		Interface:     iface,
	}

	lock := e.interfaceLock(iface)
	lock.Lock()
	defer lock.Unlock()

	start := e.clock.Now()
	log := e.logger.WithFields(logrus.Fields{
		"transaction_id": result.TransactionID,
		"interface":      iface,
		"desired":        cfg.String(),
	})

	// 1. Validate: no OS mutation may be attempted past a bad input
	name, err := entities.NewInterfaceName(iface)
	if err != nil {
		derr := errors.NewValidationError("iface_invalid", "interface name rejected", err)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}
	if err := cfg.Validate(); err != nil {
		derr := errors.NewValidationError(validationKey(err), "configuration rejected", err)
		result.MessageKey = derr.Key
		log.WithError(err).Warn("configuration failed validation")
		e.finish(result, start, derr)
		return result, derr
	}
	status, err := e.inventory.Status(ctx, name.String())
	if err != nil || status == entities.StatusUnknown {
		derr := errors.NewValidationError("iface_not_found", "interface does not resolve to a live adapter", err)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}
	if status == entities.StatusDisabled {
		derr := errors.NewValidationError("iface_disabled", "interface is administratively disabled", nil)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}

	// 2. Snapshot: the adapter can vanish between validation and here; that
	// narrower race reports as a snapshot failure, not a validation one.
	prior, err := e.inventory.Snapshot(ctx, name.String())
	if err != nil {
		derr := errors.NewSnapshotError("could not capture pre-change configuration", err)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}
	result.PriorConfig = prior

	// 3. Record: the undo entry must be durable before anything mutates.
	// If this write fails the interface is left untouched.
	snapshot := entities.Snapshot{
		Interface:  name.String(),
		Config:     *prior,
		CapturedAt: e.clock.Now(),
	}
	if err := e.ledger.Record(ctx, snapshot); err != nil {
		e.observer.UpdateLedgerHealth(false, err)
		derr := errors.NewUndoRecordError("could not persist undo snapshot", err)
		result.MessageKey = derr.Key
		e.finish(result, start, derr)
		return result, derr
	}
	e.observer.UpdateLedgerHealth(true, nil)

	// 4. Apply the ordered intents. On failure the ledger entry from step 3
	// stays valid, so the operator can still recover with Undo.
	completed, err := e.runIntents(ctx, result.TransactionID, entities.IntentsFor(name.String(), cfg))
	result.Completed = completed
	if err != nil {
		result.Partial = len(completed) > 0
		result.TimedOut = errors.IsTimeoutError(err)
		result.MessageKey = errors.KeyOf(err)
		if result.Partial {
			result.MessageKey = "apply_partial"
		}
		result.Detail = err.Error()
		log.WithError(err).WithField("completed_intents", completed).Error("apply transaction failed")
		e.finish(result, start, err)
		return result, err
	}

	// 5. Verify, best-effort
	result.Warnings = e.verify(ctx, name.String(), cfg)

	applied := cfg.Normalized()
	result.AppliedConfig = &applied
	result.Success = true
	result.MessageKey = "apply_confirm"
	e.finish(result, start, nil)

	log.WithField("duration", result.Duration).Info("apply transaction committed")
	return result, nil
}
