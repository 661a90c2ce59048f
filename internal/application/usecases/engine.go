package usecases

import (
	"context"
	"sync"
	"time"

	"netprofile-agent/internal/domain/entities"
	"netprofile-agent/internal/domain/errors"
	"netprofile-agent/internal/domain/interfaces"
	"netprofile-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// TransactionEngine orchestrates validate, snapshot, record-undo, apply and
// verify for one host. Apply and Undo for the same interface serialize on a
// per-interface lock; different interfaces proceed concurrently. The engine
// holds the only mutable shared state (the undo ledger) under those locks, so
// no further transaction scheme is needed.
type TransactionEngine struct {
	inventory      interfaces.InterfaceInventory
	ledger         interfaces.UndoLedger
	translator     interfaces.IntentTranslator
	executor       interfaces.CommandExecutor
	clock          interfaces.Clock
	observer       TransactionObserver
	logger         *logrus.Logger
	commandTimeout time.Duration
	verifyRetries  int
	verifyDelay    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// TransactionObserver receives per-transaction outcomes and ledger state
// changes so the health surface reflects what the engine is doing.
type TransactionObserver interface {
	IncrementCompletedTransactions()
	IncrementFailedTransactions()
	IncrementPartialApplications()
	UpdateLedgerHealth(healthy bool, err error)
}

// NewTransactionEngine creates a new TransactionEngine
func NewTransactionEngine(
	inventory interfaces.InterfaceInventory,
	ledger interfaces.UndoLedger,
	translator interfaces.IntentTranslator,
	executor interfaces.CommandExecutor,
	clock interfaces.Clock,
	observer TransactionObserver,
	logger *logrus.Logger,
	commandTimeout time.Duration,
	verifyRetries int,
	verifyDelay time.Duration,
) *TransactionEngine {
	return &TransactionEngine{
		inventory:      inventory,
		ledger:         ledger,
		translator:     translator,
		executor:       executor,
		clock:          clock,
		observer:       observer,
		logger:         logger,
		commandTimeout: commandTimeout,
		verifyRetries:  verifyRetries,
		verifyDelay:    verifyDelay,
		locks:          make(map[string]*sync.Mutex),
	}
}

// interfaceLock returns the lock serializing transactions on one interface
func (e *TransactionEngine) interfaceLock(name string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[name] = lock
	}
	return lock
}

// runIntents issues the intent sequence in order, stopping at the first
// failure. Returns the kinds that completed; the caller derives partiality
// from that. A command already handed to the OS is never cancelled — the
// bounded timeout applies within each invocation, not across them.
func (e *TransactionEngine) runIntents(ctx context.Context, txID string, intents []entities.Intent) ([]entities.IntentKind, error) {
	var completed []entities.IntentKind

	for _, intent := range intents {
		commands, err := e.translator.Translate(intent)
		if err != nil {
			metrics.RecordIntent(string(intent.Kind), "failed")
			return completed, errors.NewApplyError("intent not expressible on this platform", err)
		}

		for _, cmd := range commands {
			result, err := e.executor.ExecuteWithTimeout(ctx, e.commandTimeout, cmd.Name, cmd.Args...)
			if err != nil {
				metrics.RecordIntent(string(intent.Kind), "failed")
				if errors.IsTimeoutError(err) {
					return completed, err
				}
				return completed, errors.NewApplyError("command could not be executed", err)
			}
			if result.ExitCode != 0 {
				metrics.RecordIntent(string(intent.Kind), "failed")
				e.logger.WithFields(logrus.Fields{
					"transaction_id": txID,
					"intent":         intent.Kind,
					"command":        cmd.Name,
					"exit_code":      result.ExitCode,
				}).Error("intent command failed")
				if e.translator.PermissionDenied(result) {
					return completed, errors.NewPermissionError("OS utility refused: elevation required", nil)
				}
				return completed, errors.NewApplyError("OS utility exited non-zero: "+string(result.Output), nil)
			}
		}

		metrics.RecordIntent(string(intent.Kind), "success")
		completed = append(completed, intent.Kind)
	}

	return completed, nil
}

// verify re-reads the interface and compares against the expected config,
// retrying a few times because the OS adopts changes with some delay.
// Mismatches are warnings, never failures: the OS is the source of truth and
// its adoption delay is not under this system's control.
func (e *TransactionEngine) verify(ctx context.Context, iface string, expected entities.NetworkConfig) []string {
	warning := "verify_unavailable"
	for attempt := 0; ; attempt++ {
		live, err := e.inventory.Snapshot(ctx, iface)
		switch {
		case err != nil:
			warning = "verify_unavailable"
		case live.Equal(expected):
			return nil
		default:
			warning = "verify_mismatch"
		}

		if attempt >= e.verifyRetries {
			break
		}
		select {
		case <-ctx.Done():
			return []string{warning}
		case <-time.After(e.verifyDelay):
		}
	}

	e.logger.WithFields(logrus.Fields{
		"interface": iface,
		"expected":  expected.String(),
		"outcome":   warning,
	}).Warn("post-apply verification did not confirm the configuration")
	return []string{warning}
}

// finish stamps duration and records transaction metrics
func (e *TransactionEngine) finish(result *entities.TransactionResult, start time.Time, err error) {
	result.Duration = e.clock.Now().Sub(start)

	status := "success"
	if err != nil {
		status = "failed"
		metrics.RecordError(string(errors.TypeOf(err)))
		e.observer.IncrementFailedTransactions()
	} else {
		e.observer.IncrementCompletedTransactions()
	}
	if result.Partial {
		metrics.RecordPartialApplication()
		e.observer.IncrementPartialApplications()
	}
	metrics.RecordTransaction(string(result.Operation), status, result.Duration.Seconds())
}

// Outcome pairs a transaction result with its error for async consumers
type Outcome struct {
	Result *entities.TransactionResult
	Err    error
}

// ApplyAsync runs Apply off the caller's control thread. The caller awaits or
// polls the channel; the engine depends on no particular event loop.
func (e *TransactionEngine) ApplyAsync(ctx context.Context, iface string, cfg entities.NetworkConfig) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		result, err := e.Apply(ctx, iface, cfg)
		ch <- Outcome{Result: result, Err: err}
	}()
	return ch
}

// UndoAsync runs Undo off the caller's control thread
func (e *TransactionEngine) UndoAsync(ctx context.Context, iface string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		result, err := e.Undo(ctx, iface)
		ch <- Outcome{Result: result, Err: err}
	}()
	return ch
}
