package inbox

import (
	"context"
	"errors"
	"log"
	"sync"
)

// State of a Coordinator session.
type State int

const (
	StateIdle State = iota
	StateSubscribing
	StateSynced
	StateTornDown
)

// Coordinator owns the live subscription for one authenticated session and
// republishes a consistent (conversations, unreadTotal) snapshot whenever
// the store changes. Recompute is serialized: a callback arriving while a
// recompute is in flight waits for it, so a published snapshot is never
// built from a torn pair of result sets.
type Coordinator struct {
	mu        sync.Mutex
	userID    string
	lister    Lister
	source    Source
	notifier  Notifier
	state     State
	cancel    func()
	prevTotal int
	snapshot  Snapshot

	nextListener int
	listeners    map[int]func(Snapshot)
}

func NewCoordinator(userID string, lister Lister, source Source, notifier Notifier) *Coordinator {
	return &Coordinator{
		userID:    userID,
		lister:    lister,
		source:    source,
		notifier:  notifier,
		state:     StateIdle,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Start opens the subscription and loads the initial snapshot.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.New("coordinator already started")
	}
	c.state = StateSubscribing
	c.mu.Unlock()

	cancel, err := c.source.Subscribe(ctx, c.userID, func() {
		c.Recompute(ctx)
	})
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.state == StateTornDown {
		// Close won the race while Subscribe was in flight; the
		// subscription it never saw must be released here.
		c.mu.Unlock()
		cancel()
		return errors.New("coordinator closed")
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.Recompute(ctx)
	return nil
}

// Recompute re-reads both participant-side result sets, normalizes and
// aggregates them, fires a notification if the unread total grew, and
// publishes the new snapshot. Safe to call any number of times; a call
// after Close is a no-op.
func (c *Coordinator) Recompute(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle || c.state == StateTornDown {
		return
	}

	asSender, err := c.lister.ListAsSender(c.userID)
	if err != nil {
		log.Printf("inbox: listing sender-side conversations for %s: %v", c.userID, err)
		return
	}
	asRecipient, err := c.lister.ListAsRecipient(c.userID)
	if err != nil {
		log.Printf("inbox: listing recipient-side conversations for %s: %v", c.userID, err)
		return
	}

	convs := Normalize(asSender, asRecipient, c.userID)
	result := Aggregate(convs, c.userID, c.prevTotal)

	if result.Increased && len(result.Changed) > 0 && c.notifier != nil {
		latest := result.Changed[0]
		sender := latest.ParticipantNames[latest.LastMessageSender]
		if sender == "" {
			sender = "Someone"
		}
		body := latest.LastMessage
		if body == "" {
			body = "You have a new message"
		}
		if err := c.notifier.Notify(ctx, "New message from "+sender, body); err != nil {
			log.Printf("inbox: notification for %s failed: %v", c.userID, err)
		}
	}

	c.prevTotal = result.Total
	c.snapshot = Snapshot{Conversations: convs, UnreadTotal: result.Total}
	c.state = StateSynced

	for _, fn := range c.listeners {
		fn(c.snapshot)
	}
}

// Snapshot returns the last published view.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Listen registers a snapshot listener and returns its remove function.
// Listeners are invoked from inside the recompute step and must not call
// back into the Coordinator.
func (c *Coordinator) Listen(fn func(Snapshot)) (remove func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// State reports the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close cancels the subscription and resets the snapshot. Any straggler
// callback firing afterwards is ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateTornDown {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateTornDown
	c.prevTotal = 0
	c.snapshot = Snapshot{}
}
