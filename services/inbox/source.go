package inbox

import (
	"context"
	"sync"
)

// Event signals that the conversation rows touching a participant pair
// changed in the store.
type Event struct {
	SenderID    string
	RecipientID string
}

// Source is the single logical subscription callers see: one stream, one
// cancellation handle. The store cannot express "where I am a member of an
// unordered pair" directly, so implementations fan out internally to the two
// participant-side queries and merge; callers never observe the split.
type Source interface {
	Subscribe(ctx context.Context, userID string, onChange func()) (cancel func(), err error)
}

// Lister fetches the full current result set of each participant-side query.
// Recompute always re-reads both sides rather than patching deltas.
type Lister interface {
	ListAsSender(userID string) ([]Row, error)
	ListAsRecipient(userID string) ([]Row, error)
}

// Broker is the in-process change feed the write path publishes to after
// every conversation mutation.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(Event))}
}

func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (b *Broker) subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// BrokerSource adapts the Broker to the Source interface, matching events
// on either side of the pair so the caller sees one stream.
type BrokerSource struct {
	Broker *Broker
}

func NewBrokerSource(broker *Broker) *BrokerSource {
	return &BrokerSource{Broker: broker}
}

func (s *BrokerSource) Subscribe(ctx context.Context, userID string, onChange func()) (func(), error) {
	cancel := s.Broker.subscribe(func(e Event) {
		if e.SenderID == userID || e.RecipientID == userID {
			onChange()
		}
	})

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return cancel, nil
}
