package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"churnscope/domain/churn"
	"churnscope/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadIsMemoized(t *testing.T) {
	source := &fakeSource{table: churnTable([]string{"1", "NA", "3"})}
	store := NewStore(NewLoader(source))

	first, err := store.Load(context.Background())
	require.NoError(t, err)
	second, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.reads))
	assert.Equal(t, StateLoaded, store.State())
	require.NotNil(t, store.Report())
	assert.Equal(t, 1, store.Report().ImputedTotalCharges)
}

func TestStore_DatasetFailsFastBeforeLoad(t *testing.T) {
	store := NewStore(NewLoader(&fakeSource{table: churnTable([]string{"1"})}))

	_, err := store.Dataset()

	assert.True(t, core.IsNotLoaded(err))
	assert.Equal(t, StateUnloaded, store.State())
	assert.Nil(t, store.Report())
}

func TestStore_ConcurrentLoadsReadOnce(t *testing.T) {
	source := &fakeSource{table: churnTable([]string{"1", "2"}), gate: make(chan struct{})}
	store := NewStore(NewLoader(source))

	const callers = 16
	results := make([]*churn.Dataset, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := store.Load(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}

	require.Eventually(t, func() bool { return store.State() == StateLoading }, time.Second, time.Millisecond)
	_, err := store.Dataset()
	assert.True(t, core.IsNotLoaded(err))

	close(source.gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&source.reads))
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestStore_FailureIsPermanent(t *testing.T) {
	source := &fakeSource{err: errors.New("unreadable")}
	store := NewStore(NewLoader(source))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsDataUnavailable(err))

	_, err = store.Load(context.Background())
	assert.True(t, core.IsDataUnavailable(err))
	_, err = store.Dataset()
	assert.True(t, core.IsDataUnavailable(err))

	assert.Equal(t, StateFailed, store.State())
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.reads))
	assert.Error(t, store.Err())
}

func TestStore_WaitHonoursContext(t *testing.T) {
	store := NewStore(NewLoader(&fakeSource{table: churnTable([]string{"1"})}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := store.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = store.Load(context.Background())
	require.NoError(t, err)
	ds, err := store.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestStore_CanceledCallerStillCompletesLoad(t *testing.T) {
	store := NewStore(NewLoader(&fakeSource{table: churnTable([]string{"1"})}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := store.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, StateLoaded, store.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unloaded", StateUnloaded.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}

// panicLoader blocks on gate, then panics
type panicLoader struct {
	gate chan struct{}
}

func (p panicLoader) Load(ctx context.Context) (*churn.Dataset, *LoadReport, error) {
	<-p.gate
	panic("workbook exploded")
}

func TestStore_PanickingLoadFailsAndReleasesWaiters(t *testing.T) {
	gate := make(chan struct{})
	store := NewStore(panicLoader{gate: gate})

	loadErr := make(chan error, 1)
	go func() {
		_, err := store.Load(context.Background())
		loadErr <- err
	}()
	require.Eventually(t, func() bool { return store.State() == StateLoading }, time.Second, time.Millisecond)

	waitErr := make(chan error, 1)
	go func() {
		_, err := store.Wait(context.Background())
		waitErr <- err
	}()
	close(gate)

	for _, ch := range []chan error{loadErr, waitErr} {
		select {
		case err := <-ch:
			require.Error(t, err)
			assert.Contains(t, err.Error(), "workbook exploded")
		case <-time.After(2 * time.Second):
			t.Fatal("store stayed in Loading after a panicking load")
		}
	}
	assert.Equal(t, StateFailed, store.State())
	_, err := store.Dataset()
	assert.Error(t, err)
}
