package engine

import (
	"fmt"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WriteAccessOracle answers whether the current caller may mutate engine state.
// The surrounding execution environment owns authentication; the engine only
// consults the verdict before any mutating operation.
type WriteAccessOracle interface {
	HasWriteAccess() bool
}

// SwapEvent is the externally visible trace of a completed swap.
type SwapEvent struct {
	PoolKey   string `json:"poolKey"`
	FromToken string `json:"fromToken"`
	ToToken   string `json:"toToken"`
	AmountIn  uint64 `json:"amountIn"`
	AmountOut uint64 `json:"amountOut"`
	Timestamp int64  `json:"timestamp"` // Unix nanoseconds at execution time.
}

// String renders the human-readable swap-completion notice forwarded to sinks.
func (e SwapEvent) String() string {
	return fmt.Sprintf("swapped %d %s for %d %s in pool %s", e.AmountIn, e.FromToken, e.AmountOut, e.ToToken, e.PoolKey)
}

// EventSink receives swap-completion events. Implementations must not block:
// the engine emits synchronously on the execution path.
type EventSink interface {
	Emit(event SwapEvent)
}

// LogSink forwards events to a structured logger.
type LogSink struct {
	logger Logger
}

func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(event SwapEvent) {
	s.logger.Info(event.String(),
		"poolKey", event.PoolKey,
		"fromToken", event.FromToken,
		"toToken", event.ToToken,
		"amountIn", event.AmountIn,
		"amountOut", event.AmountOut,
	)
}

// ChannelSink buffers events for asynchronous consumers. When the buffer is
// full the event is dropped rather than blocking the swap path.
type ChannelSink struct {
	events chan SwapEvent
	logger Logger
}

func NewChannelSink(logger Logger, bufferSize uint) *ChannelSink {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &ChannelSink{
		events: make(chan SwapEvent, bufferSize),
		logger: logger,
	}
}

// Events returns a read-only channel for receiving swap events.
func (s *ChannelSink) Events() <-chan SwapEvent {
	return s.events
}

func (s *ChannelSink) Emit(event SwapEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event buffer full, dropping swap event", "poolKey", event.PoolKey)
	}
}

// sinks is a fan-out EventSink.
type sinks []EventSink

func (m sinks) Emit(event SwapEvent) {
	for _, s := range m {
		s.Emit(event)
	}
}

// MultiSink combines several sinks into one. A nil result means no sink.
func MultiSink(targets ...EventSink) EventSink {
	live := make(sinks, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	if len(live) == 1 {
		return live[0]
	}
	return live
}
