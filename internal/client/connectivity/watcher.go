package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/weddingkeeper/internal/logging"
)

// DefaultPingTimeout bounds a single reachability probe.
const DefaultPingTimeout = 3 * time.Second

// Pinger is anything that can probe the backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher is an Oracle fed by periodic pings and by explicit Set calls.
// Subscribers are called synchronously, once per state transition.
type Watcher struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger

	offline atomic.Bool

	mu          sync.Mutex
	subscribers []func(online bool)
}

func NewWatcher(p Pinger, interval time.Duration, l logging.Logger) *Watcher {
	if l == nil {
		l = logging.Nop{}
	}
	return &Watcher{
		pinger:   p,
		interval: interval,
		timeout:  DefaultPingTimeout,
		logger:   l.With("module", "connectivity"),
	}
}

func (w *Watcher) IsOffline() bool {
	return w.offline.Load()
}

// Subscribe registers fn to be called on every online/offline transition.
func (w *Watcher) Subscribe(fn func(online bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Set records the connectivity state. It returns true when the state changed.
func (w *Watcher) Set(online bool) bool {
	if !w.offline.CompareAndSwap(online, !online) {
		return false
	}

	mode := "offline"
	if online {
		mode = "online"
	}
	w.logger.Info(context.Background(), "switched mode", "mode", mode)

	w.mu.Lock()
	subs := make([]func(bool), len(w.subscribers))
	copy(subs, w.subscribers)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
	return true
}

// Check pings the backend once and updates the state.
func (w *Watcher) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.pinger.Ping(ctx)
	cancel()

	if err != nil {
		w.logger.Debug(ctx, "ping failed", "error", err)
	}
	online := err == nil
	w.Set(online)
	return online
}

// Run pings the backend every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
