package differ

import "github.com/defistate/swap-engine-go/engine"

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type ProtocolDiff struct {
	Meta engine.ProtocolMeta `json:"meta"`

	// Schema is the decode contract for Data.
	// Examples:
	// "defistate/swap-engine/tokenLedger@v1"
	// "defistate/swap-engine/poolSet@v1"
	Schema engine.ProtocolSchema `json:"schema"`

	// Data is the protocol diff, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this protocol failed to diff for this version.
	Error string `json:"error,omitempty"`
}

// StateDiff represents a summary of changes FromVersion to ToSummary.
type StateDiff struct {
	Timestamp   uint64                             `json:"timestamp"`
	FromVersion uint64                             `json:"fromVersion"`
	ToSummary   engine.LedgerSummary               `json:"toSummary"`
	Protocols   map[engine.ProtocolID]ProtocolDiff `json:"protocols"`
}
