package engine

import (
	"github.com/ethereum/go-ethereum/common"
)

type ProtocolName string
type ProtocolID string

// ProtocolSchema defines the decode contract for a protocol's data
type ProtocolSchema string

type ProtocolMeta struct {
	Name ProtocolName `json:"name"`           // human label
	Tags []string     `json:"tags,omitempty"` // "ledger", "amm", etc.
}

type ProtocolState struct {
	Meta ProtocolMeta `json:"meta"`

	// Schema is the decode contract for Data.
	// Example:
	// "defistate/swap-engine/tokenLedger@v1"
	Schema ProtocolSchema `json:"schema"`

	// Data is the protocol view, shaped by Schema.
	Data any `json:"data,omitempty"`

	// Error is populated if this protocol failed to snapshot at this version.
	Error string `json:"error,omitempty"`
}

// LedgerSummary contains only the essential snapshot information for clients.
type LedgerSummary struct {
	Version    uint64      `json:"version"`
	Timestamp  uint64      `json:"timestamp"`
	ReceivedAt int64       `json:"receivedAt"` // The Unix nanosecond timestamp when the snapshot was taken.
	StateRoot  common.Hash `json:"stateRoot"`
}

// State is the main data structure handed to diffing and snapshot consumers.
type State struct {
	EngineID  uint64                       `json:"engineId"`
	Timestamp uint64                       `json:"timestamp"`
	Summary   LedgerSummary                `json:"summary"`
	Protocols map[ProtocolID]ProtocolState `json:"protocols"`
}

func (state *State) HasErrors() bool {
	// Check protocol-level errors
	for _, pr := range state.Protocols {
		if pr.Error != "" {
			return true
		}
	}
	return false
}
