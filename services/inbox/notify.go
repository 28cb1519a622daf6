package inbox

import (
	"context"
	"sync"
)

// Permission is the tri-state notification consent.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier delivers a user-facing notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Requester resolves an undecided permission to granted or denied. It is
// only ever invoked from RequestPermission, never from Notify.
type Requester interface {
	Request(ctx context.Context) (Permission, error)
}

// Gate wraps a Notifier behind the permission state. Notify is a silent
// no-op unless permission is already granted; it never prompts.
type Gate struct {
	mu        sync.Mutex
	state     Permission
	notifier  Notifier
	requester Requester
}

func NewGate(state Permission, notifier Notifier, requester Requester) *Gate {
	if state == "" {
		state = PermissionDefault
	}
	return &Gate{state: state, notifier: notifier, requester: requester}
}

func (g *Gate) Notify(ctx context.Context, title, body string) error {
	g.mu.Lock()
	granted := g.state == PermissionGranted && g.notifier != nil
	g.mu.Unlock()
	if !granted {
		return nil
	}
	return g.notifier.Notify(ctx, title, body)
}

// RequestPermission resolves an undecided state via the requester. Once the
// state leaves "default" it reports the decision without asking again.
func (g *Gate) RequestPermission(ctx context.Context) (bool, error) {
	g.mu.Lock()
	if g.state != PermissionDefault {
		granted := g.state == PermissionGranted
		g.mu.Unlock()
		return granted, nil
	}
	if g.requester == nil {
		g.mu.Unlock()
		return false, nil
	}
	g.mu.Unlock()

	state, err := g.requester.Request(ctx)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	g.state = state
	granted := state == PermissionGranted
	g.mu.Unlock()
	return granted, nil
}

// State reports the current permission.
func (g *Gate) State() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
