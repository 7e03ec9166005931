// Package connectivity tells the data-access services whether the remote
// backend should be considered reachable.
package connectivity

import "sync/atomic"

// Oracle reports the current connectivity state. IsOffline never blocks and
// reports online when the state is unknown.
type Oracle interface {
	IsOffline() bool
}

// Static is an Oracle that only changes when told to.
type Static struct {
	offline atomic.Bool
}

func NewStatic(offline bool) *Static {
	s := &Static{}
	s.offline.Store(offline)
	return s
}

func (s *Static) IsOffline() bool {
	return s.offline.Load()
}

func (s *Static) SetOffline(offline bool) {
	s.offline.Store(offline)
}

// Override wraps an Oracle and can pin it to offline, e.g. when the admin
// asks to work disconnected while the backend is reachable.
type Override struct {
	base   Oracle
	forced atomic.Bool
}

func NewOverride(base Oracle) *Override {
	return &Override{base: base}
}

func (o *Override) IsOffline() bool {
	return o.forced.Load() || o.base.IsOffline()
}

// Force pins the state to offline, or releases the pin. It returns true
// when the pin changed.
func (o *Override) Force(offline bool) bool {
	return o.forced.CompareAndSwap(!offline, offline)
}

func (o *Override) Forced() bool {
	return o.forced.Load()
}
