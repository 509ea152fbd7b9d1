package dataset

import (
	"context"
	"fmt"
	"sync"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// State is the lifecycle of a Store. It only moves forward:
// Unloaded -> Loading -> Loaded or Failed.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// DatasetLoader is satisfied by *Loader
type DatasetLoader interface {
	Load(ctx context.Context) (*churn.Dataset, *LoadReport, error)
}

// Store owns the process's single loaded Dataset. Construct one at startup and pass it
// to whatever needs the data; the source is read at most once per Store.
type Store struct {
	loader DatasetLoader

	mu      sync.Mutex
	state   State
	dataset *churn.Dataset
	report  *LoadReport
	err     error
	done    chan struct{}
}

// NewStore creates an unloaded store
func NewStore(loader DatasetLoader) *Store {
	return &Store{
		loader: loader,
		state:  StateUnloaded,
		done:   make(chan struct{}),
	}
}

// Load performs the load on first call. Concurrent callers wait for that load; later
// callers get the cached dataset or the cached error. The load itself is not bound to
// ctx cancellation, so a caller giving up never leaves the store half-loaded.
func (s *Store) Load(ctx context.Context) (*churn.Dataset, error) {
	s.mu.Lock()
	switch s.state {
	case StateLoaded, StateFailed:
		ds, err := s.dataset, s.err
		s.mu.Unlock()
		return ds, err
	case StateLoading:
		s.mu.Unlock()
		return s.Wait(ctx)
	}
	s.state = StateLoading
	s.mu.Unlock()

	ds, report, err := s.runLoad(context.WithoutCancel(ctx))

	s.mu.Lock()
	if err != nil {
		s.state = StateFailed
		s.err = err
	} else {
		s.state = StateLoaded
		s.dataset = ds
		s.report = report
	}
	close(s.done)
	s.mu.Unlock()

	return ds, err
}

// runLoad turns a panicking loader into a load error so waiters are always released
func (s *Store) runLoad(ctx context.Context) (ds *churn.Dataset, report *LoadReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			ds, report, err = nil, nil, fmt.Errorf("dataset load panicked: %v", r)
		}
	}()
	return s.loader.Load(ctx)
}

// Wait blocks until the store is Loaded or Failed, or ctx is done
func (s *Store) Wait(ctx context.Context) (*churn.Dataset, error) {
	select {
	case <-s.done:
		return s.Dataset()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dataset returns the loaded dataset without blocking. It fails with core.ErrNotLoaded
// before the load completes and with the load error after a failed load.
func (s *Store) Dataset() (*churn.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateLoaded:
		return s.dataset, nil
	case StateFailed:
		return nil, s.err
	}
	return nil, core.ErrNotLoaded
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Report returns the load report, nil until loaded
func (s *Store) Report() *LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Err returns the load error, nil unless Failed
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
