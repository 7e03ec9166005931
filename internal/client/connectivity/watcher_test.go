package connectivity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("ping without deadline")
	}
	if f.fail.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func TestStatic(t *testing.T) {
	var o Oracle = NewStatic(true)
	assert.True(t, o.IsOffline())

	s := NewStatic(false)
	assert.False(t, s.IsOffline())
	s.SetOffline(true)
	assert.True(t, s.IsOffline())
}

func TestOverride(t *testing.T) {
	base := NewStatic(false)
	o := NewOverride(base)
	assert.False(t, o.IsOffline())
	assert.False(t, o.Forced())

	assert.True(t, o.Force(true))
	assert.False(t, o.Force(true))
	assert.True(t, o.IsOffline())
	assert.True(t, o.Forced())

	assert.True(t, o.Force(false))
	assert.False(t, o.IsOffline())

	base.SetOffline(true)
	assert.True(t, o.IsOffline())
	assert.False(t, o.Forced())
}

func TestWatcher_DefaultsToOnline(t *testing.T) {
	w := NewWatcher(&fakePinger{}, time.Second, nil)
	assert.False(t, w.IsOffline())
}

func TestWatcher_Set_NotifiesOnTransitionOnly(t *testing.T) {
	w := NewWatcher(&fakePinger{}, time.Second, nil)

	var got []bool
	w.Subscribe(func(online bool) { got = append(got, online) })

	assert.False(t, w.Set(true), "already online")
	assert.True(t, w.Set(false))
	assert.True(t, w.IsOffline())
	assert.False(t, w.Set(false))
	assert.True(t, w.Set(true))

	assert.Equal(t, []bool{false, true}, got)
}

func TestWatcher_Check(t *testing.T) {
	p := &fakePinger{}
	w := NewWatcher(p, time.Second, nil)
	ctx := context.Background()

	p.fail.Store(true)
	assert.False(t, w.Check(ctx))
	assert.True(t, w.IsOffline())

	p.fail.Store(false)
	assert.True(t, w.Check(ctx))
	assert.False(t, w.IsOffline())
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestWatcher_Run_TracksPingsUntilCancelled(t *testing.T) {
	p := &fakePinger{}
	p.fail.Store(true)
	w := NewWatcher(p, 10*time.Millisecond, nil)

	var mu sync.Mutex
	var transitions []bool
	w.Subscribe(func(online bool) {
		mu.Lock()
		transitions = append(transitions, online)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, w.IsOffline, time.Second, 5*time.Millisecond)

	p.fail.Store(false)
	require.Eventually(t, func() bool { return !w.IsOffline() }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true}, transitions)
}
