// Package camera acquires live video frames and tracks the camera
// permission state.
package camera

import (
	"context"
	"image"
	"sync"
)

// Source produces a stream of decoded frames. Start returns a channel
// that is closed when the source stops; frames are dropped rather than
// queued when the consumer lags. Stop releases the underlying stream on
// every exit path, including a stop issued before Start resolved.
type Source interface {
	Start(ctx context.Context) (<-chan image.Image, error)
	Stop()
}

// PermissionState is the camera access outcome.
type PermissionState int

const (
	PermissionPending PermissionState = iota
	PermissionGranted
	PermissionDenied
)

func (p PermissionState) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "pending"
	}
}

// Permission tracks the tri-state camera permission. It transitions from
// pending to exactly one of granted or denied, once, and never moves
// afterward.
type Permission struct {
	mu    sync.Mutex
	state PermissionState
}

// State returns the current permission state.
func (p *Permission) State() PermissionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Grant resolves a pending permission to granted. Reports whether the
// transition happened.
func (p *Permission) Grant() bool {
	return p.resolve(PermissionGranted)
}

// Deny resolves a pending permission to denied. Reports whether the
// transition happened.
func (p *Permission) Deny() bool {
	return p.resolve(PermissionDenied)
}

func (p *Permission) resolve(to PermissionState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != PermissionPending {
		return false
	}
	p.state = to
	return true
}
