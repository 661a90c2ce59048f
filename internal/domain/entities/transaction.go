package entities

import "time"

// Operation names the two entry points of the transaction engine
type Operation string

const (
	OperationApply Operation = "apply"
	OperationUndo  Operation = "undo"
)

// TransactionResult reports what one Apply or Undo call did. It is returned
// to the caller and never persisted. MessageKey and Warnings are translation
// keys; the engine never embeds user-facing text.
type TransactionResult struct {
	TransactionID string         `json:"transaction_id"`
	Operation     Operation      `json:"operation"`
	Interface     string         `json:"interface"`
	Success       bool           `json:"success"`
	Partial       bool           `json:"partial"`
	TimedOut      bool           `json:"timed_out,omitempty"`
	AppliedConfig *NetworkConfig `json:"applied_config,omitempty"`
	PriorConfig   *NetworkConfig `json:"prior_config,omitempty"`
	MessageKey    string         `json:"message_key"`
	Detail        string         `json:"detail,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	Completed     []IntentKind   `json:"completed_intents,omitempty"`
	Duration      time.Duration  `json:"duration_ns"`
}
