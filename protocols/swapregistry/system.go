package swapregistry

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/defistate/swap-engine-go/engine"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrWriteAccessDenied is returned when the access oracle refuses a mutation.
var ErrWriteAccessDenied = errors.New("write access denied")

// System provides the concurrency-safe layer over a Registry. The core
// registry is single-writer by design; System is the mutual-exclusion
// boundary spec'd for deployments where external callers may invoke the
// engine concurrently. It uses a sync.RWMutex for writes and an
// atomic.Pointer for lock-free view reads.
//
// Every mutating operation first consults the WriteAccessOracle (when one is
// configured) and refuses without touching state when access is denied.
type System struct {
	mu         sync.RWMutex
	registry   *Registry
	access     engine.WriteAccessOracle
	metrics    *Metrics
	cachedView atomic.Pointer[RegistryView] // Read-optimized cache for the registry view
}

// SystemConfig holds the dependencies for a System.
type SystemConfig struct {
	Logger Logger
	// Events receives the swap-completion trace. Optional.
	Events engine.EventSink
	// Access gates mutating operations. Optional; nil grants all writes.
	Access engine.WriteAccessOracle
	// Registry receives the engine metrics. Required.
	Registry prometheus.Registerer
}

func (c *SystemConfig) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	return nil
}

// NewSystem creates a concurrency-safe system over an empty registry.
func NewSystem(cfg *SystemConfig) (*System, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	registry, err := New(&Config{Logger: cfg.Logger, Events: cfg.Events})
	if err != nil {
		return nil, err
	}

	s := &System{
		registry: registry,
		access:   cfg.Access,
		metrics:  NewMetrics(cfg.Registry),
	}
	// Initialize the cached view with an empty, non-nil snapshot.
	s.cachedView.Store(registry.View())
	return s, nil
}

// NewSystemFromView creates a concurrency-safe system from a snapshot view.
func NewSystemFromView(view *RegistryView, cfg *SystemConfig) (*System, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	registry, err := NewFromView(view, &Config{Logger: cfg.Logger, Events: cfg.Events})
	if err != nil {
		return nil, err
	}

	s := &System{
		registry: registry,
		access:   cfg.Access,
		metrics:  NewMetrics(cfg.Registry),
	}
	s.cachedView.Store(registry.View())
	return s, nil
}

// updateCachedView generates a fresh view from the registry and atomically updates the pointer.
// This method MUST be called from within a write lock (s.mu.Lock).
func (s *System) updateCachedView() {
	s.cachedView.Store(s.registry.View())
}

// checkWriteAccess consults the oracle. Called before taking the write lock.
func (s *System) checkWriteAccess() error {
	if s.access != nil && !s.access.HasWriteAccess() {
		s.metrics.rejectionsTotal.WithLabelValues("write_access_denied").Inc()
		return ErrWriteAccessDenied
	}
	return nil
}

// --- Write Methods ---

// AddToken creates a zero-balance token, overwriting any prior entry.
func (s *System) AddToken(name string) error {
	timer := prometheus.NewTimer(s.metrics.opDuration.WithLabelValues("addToken"))
	defer timer.ObserveDuration()

	if err := s.checkWriteAccess(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.AddToken(name)
	s.updateCachedView()
	return nil
}

// AddPool registers a pool under the directional key nameA-nameB.
func (s *System) AddPool(nameA, nameB string, reserveA, reserveB uint64) error {
	timer := prometheus.NewTimer(s.metrics.opDuration.WithLabelValues("addPool"))
	defer timer.ObserveDuration()

	if err := s.checkWriteAccess(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.AddPool(nameA, nameB, reserveA, reserveB); err != nil {
		s.metrics.rejectionsTotal.WithLabelValues(reasonFor(err)).Inc()
		return err
	}
	s.updateCachedView()
	return nil
}

// Credit mints amount onto the named token's balance.
func (s *System) Credit(name string, amount uint64) error {
	timer := prometheus.NewTimer(s.metrics.opDuration.WithLabelValues("credit"))
	defer timer.ObserveDuration()

	if err := s.checkWriteAccess(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Credit(name, amount); err != nil {
		s.metrics.rejectionsTotal.WithLabelValues(reasonFor(err)).Inc()
		return err
	}
	s.updateCachedView()
	return nil
}

// AddLiquidity grows the pool registered under nameA-nameB.
func (s *System) AddLiquidity(nameA, nameB string, amountA, amountB uint64) error {
	timer := prometheus.NewTimer(s.metrics.opDuration.WithLabelValues("addLiquidity"))
	defer timer.ObserveDuration()

	if err := s.checkWriteAccess(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.AddLiquidity(nameA, nameB, amountA, amountB); err != nil {
		s.metrics.rejectionsTotal.WithLabelValues(reasonFor(err)).Inc()
		return err
	}
	s.updateCachedView()
	return nil
}

// Swap executes a swap through the pool registered under poolNameA-poolNameB.
func (s *System) Swap(poolNameA, poolNameB, fromName, toName string, amount uint64) (uint64, error) {
	timer := prometheus.NewTimer(s.metrics.opDuration.WithLabelValues("swap"))
	defer timer.ObserveDuration()

	if err := s.checkWriteAccess(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	amountOut, err := s.registry.Swap(poolNameA, poolNameB, fromName, toName, amount)
	if err != nil {
		s.metrics.rejectionsTotal.WithLabelValues(reasonFor(err)).Inc()
		return 0, err
	}
	s.metrics.swapsTotal.Inc()
	s.updateCachedView()
	return amountOut, nil
}

// --- Read Methods ---

// TokenBalance returns the live balance of the named token.
func (s *System) TokenBalance(name string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.TokenBalance(name)
}

// Price delegates to the pool registered under nameA-nameB.
func (s *System) Price(nameA, nameB string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Price(nameA, nameB)
}

// View returns the cached registry snapshot. The snapshot is deep-copied so
// callers can hold or mutate it freely without racing writers.
func (s *System) View() *RegistryView {
	cachedViewPtr := s.cachedView.Load()
	if cachedViewPtr == nil {
		return &RegistryView{}
	}
	return cachedViewPtr.clone()
}
