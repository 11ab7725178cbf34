package stateops

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/defistate/swap-engine-go/differ"
	"github.com/defistate/swap-engine-go/engine"
	"github.com/defistate/swap-engine-go/patcher"
	swappool "github.com/defistate/swap-engine-go/protocols/swappool"
	swapregistry "github.com/defistate/swap-engine-go/protocols/swapregistry"
	tokenledger "github.com/defistate/swap-engine-go/protocols/tokenledger"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
)

// Protocol identities under which the engine's two subsystems appear in a State.
const (
	TokenLedgerProtocolID engine.ProtocolID = "token-ledger"
	PoolSetProtocolID     engine.ProtocolID = "swap-pools"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StateOps encapsulates the core logic for processing swap-engine state.
//
// It acts as a unified facade for two critical operations:
// 1. Differ: Calculating the delta between two states.
// 2. Patcher: Applying a delta to a previous state to reconstruct the present.
type StateOps struct {
	*differ.StateDiffer
	*patcher.StatePatcher
}

func NewStateOps(
	logger Logger,
	prometheusRegistry prometheus.Registerer,
) (*StateOps, error) {
	protocolDiffers := map[engine.ProtocolSchema]differ.ProtocolDiffer{
		tokenledger.Schema: func(old, new any) (diff any, err error) {
			return tokenledger.Differ(old.([]tokenledger.Token), new.([]tokenledger.Token)), nil
		},
		swappool.Schema: func(old, new any) (diff any, err error) {
			return swappool.Differ(old.([]swappool.PoolView), new.([]swappool.PoolView)), nil
		},
	}

	protocolPatchers := map[engine.ProtocolSchema]patcher.PatcherFunc{
		tokenledger.Schema: func(prevState, diff any) (newState any, err error) {
			return tokenledger.Patcher(prevState.([]tokenledger.Token), diff.(tokenledger.TokenLedgerDiff))
		},
		swappool.Schema: func(prevState, diff any) (newState any, err error) {
			return swappool.Patcher(prevState.([]swappool.PoolView), diff.(swappool.PoolSetDiff))
		},
	}

	stateDiffer, err := differ.NewStateDiffer(&differ.StateDifferConfig{
		ProtocolDiffers: protocolDiffers,
		Logger:          logger,
		Registry:        prometheusRegistry,
	})
	if err != nil {
		return nil, err
	}

	statePatcher, err := patcher.NewStatePatcher(&patcher.StatePatcherConfig{
		Patchers: protocolPatchers,
	})
	if err != nil {
		return nil, err
	}

	return &StateOps{
		StateDiffer:  stateDiffer,
		StatePatcher: statePatcher,
	}, nil
}

// BuildState assembles a versioned engine.State from a registry snapshot.
// The state root is the Keccak-256 hash of the view's canonical JSON form;
// RegistryView sorts its slices, so equal ledger states hash equally.
func BuildState(engineID, version uint64, view *swapregistry.RegistryView) (*engine.State, error) {
	canonical, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &engine.State{
		EngineID:  engineID,
		Timestamp: uint64(now.Unix()),
		Summary: engine.LedgerSummary{
			Version:    version,
			Timestamp:  uint64(now.Unix()),
			ReceivedAt: now.UnixNano(),
			StateRoot:  crypto.Keccak256Hash(canonical),
		},
		Protocols: map[engine.ProtocolID]engine.ProtocolState{
			TokenLedgerProtocolID: {
				Meta:   engine.ProtocolMeta{Name: "Token Ledger", Tags: []string{"ledger"}},
				Schema: tokenledger.Schema,
				Data:   view.Tokens,
			},
			PoolSetProtocolID: {
				Meta:   engine.ProtocolMeta{Name: "Swap Pools", Tags: []string{"amm"}},
				Schema: swappool.Schema,
				Data:   view.Pools,
			},
		},
	}, nil
}

func (ops *StateOps) DecodeStateJSON(
	schema engine.ProtocolSchema,
	data json.RawMessage,
) (any, error) {
	switch schema {
	case tokenledger.Schema:
		var typedData []tokenledger.Token
		err := json.Unmarshal(data, &typedData)
		if err != nil {
			return nil, err
		}
		return typedData, nil

	case swappool.Schema:
		var typedData []swappool.PoolView
		err := json.Unmarshal(data, &typedData)
		if err != nil {
			return nil, err
		}
		return typedData, nil
	default:
		return nil, errors.New("unknown schema")
	}
}

func (ops *StateOps) DecodeStateDiffJSON(
	schema engine.ProtocolSchema,
	data json.RawMessage,
) (any, error) {
	switch schema {
	case tokenledger.Schema:
		var typedData tokenledger.TokenLedgerDiff
		err := json.Unmarshal(data, &typedData)
		if err != nil {
			return nil, err
		}
		return typedData, nil

	case swappool.Schema:
		var typedData swappool.PoolSetDiff
		err := json.Unmarshal(data, &typedData)
		if err != nil {
			return nil, err
		}
		return typedData, nil
	default:
		return nil, errors.New("unknown schema")
	}
}
