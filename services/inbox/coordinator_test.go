package inbox

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeLister serves fixed result sets for both participant-side queries.
type fakeLister struct {
	mu          sync.Mutex
	asSender    []Row
	asRecipient []Row
}

func (l *fakeLister) set(asSender, asRecipient []Row) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asSender = asSender
	l.asRecipient = asRecipient
}

func (l *fakeLister) ListAsSender(userID string) ([]Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Row(nil), l.asSender...), nil
}

func (l *fakeLister) ListAsRecipient(userID string) ([]Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Row(nil), l.asRecipient...), nil
}

// fakeSource hands the registered callback to the test.
type fakeSource struct {
	onChange  func()
	cancelled bool
}

func (s *fakeSource) Subscribe(ctx context.Context, userID string, onChange func()) (func(), error) {
	s.onChange = onChange
	return func() { s.cancelled = true }, nil
}

// stubNotifier records notifications.
type stubNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *stubNotifier) Notify(ctx context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, title+": "+body)
	return nil
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func unreadRow(id string, unread int) Row {
	return Row{
		ID:            id,
		SenderID:      "alice",
		RecipientID:   "bob",
		SenderName:    "Alice",
		RecipientName: "Bob",
		LastMessage:   "hello there",
		LastMessageAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		LastMessageBy: "alice",
		UnreadCounts:  map[string]int{"bob": unread},
	}
}

func newTestCoordinator(t *testing.T, lister *fakeLister, source *fakeSource, notifier Notifier) *Coordinator {
	t.Helper()
	c := NewCoordinator("bob", lister, source, notifier)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	return c
}

func TestCoordinatorInitialSnapshot(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 2)})
	c := newTestCoordinator(t, lister, &fakeSource{}, nil)
	defer c.Close()

	snap := c.Snapshot()
	if snap.UnreadTotal != 2 {
		t.Errorf("UnreadTotal = %d, want 2", snap.UnreadTotal)
	}
	if len(snap.Conversations) != 1 || snap.Conversations[0].ID != "c1" {
		t.Errorf("Conversations = %+v", snap.Conversations)
	}
	if c.State() != StateSynced {
		t.Errorf("State = %v, want StateSynced", c.State())
	}
}

func TestCoordinatorIdempotentRecompute(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 2), unreadRow("c2", 1)})
	notifier := &stubNotifier{}
	c := newTestCoordinator(t, lister, &fakeSource{}, notifier)
	defer c.Close()

	first := c.Snapshot()
	c.Recompute(context.Background())
	second := c.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated recompute diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	// identical inputs never look like growth
	if notifier.count() != 0 {
		t.Errorf("notifier fired %d times on identical inputs", notifier.count())
	}
}

func TestCoordinatorColdStartDoesNotNotify(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 5)})
	notifier := &stubNotifier{}
	c := newTestCoordinator(t, lister, &fakeSource{}, notifier)
	defer c.Close()

	if notifier.count() != 0 {
		t.Errorf("notification fired on cold start with historic unread")
	}
}

func TestCoordinatorNotifiesOnGrowth(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 2)})
	notifier := &stubNotifier{}
	source := &fakeSource{}
	c := newTestCoordinator(t, lister, source, notifier)
	defer c.Close()

	lister.set(nil, []Row{unreadRow("c1", 4)})
	source.onChange()

	if notifier.count() != 1 {
		t.Fatalf("notifier fired %d times, want 1", notifier.count())
	}
	notifier.mu.Lock()
	call := notifier.calls[0]
	notifier.mu.Unlock()
	if call != "New message from Alice: hello there" {
		t.Errorf("notification = %q", call)
	}
}

func TestCoordinatorTeardownSilencesStragglers(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 1)})
	notifier := &stubNotifier{}
	source := &fakeSource{}
	c := newTestCoordinator(t, lister, source, notifier)

	c.Close()
	if !source.cancelled {
		t.Error("Close did not cancel the subscription")
	}

	// straggler callback after teardown
	lister.set(nil, []Row{unreadRow("c1", 9)})
	source.onChange()

	snap := c.Snapshot()
	if snap.UnreadTotal != 0 || len(snap.Conversations) != 0 {
		t.Errorf("snapshot mutated after teardown: %+v", snap)
	}
	if notifier.count() != 0 {
		t.Errorf("notifier fired after teardown")
	}
	if c.State() != StateTornDown {
		t.Errorf("State = %v, want StateTornDown", c.State())
	}
}

// closingSource closes the coordinator from inside Subscribe, before Start
// has stored the cancel func.
type closingSource struct {
	coordinator *Coordinator
	cancelled   bool
}

func (s *closingSource) Subscribe(ctx context.Context, userID string, onChange func()) (func(), error) {
	s.coordinator.Close()
	return func() { s.cancelled = true }, nil
}

func TestCoordinatorCloseDuringSubscribe(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 1)})
	source := &closingSource{}
	c := NewCoordinator("bob", lister, source, nil)
	source.coordinator = c

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("Start() succeeded after Close")
	}
	if !source.cancelled {
		t.Error("subscription not released after losing the race to Close")
	}
	if c.State() != StateTornDown {
		t.Errorf("State = %v, want StateTornDown", c.State())
	}
}

func TestCoordinatorPublishesToListeners(t *testing.T) {
	lister := &fakeLister{}
	lister.set(nil, []Row{unreadRow("c1", 1)})
	source := &fakeSource{}
	c := NewCoordinator("bob", lister, source, nil)

	var published []Snapshot
	remove := c.Listen(func(s Snapshot) { published = append(published, s) })
	defer remove()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer c.Close()

	if len(published) != 1 || published[0].UnreadTotal != 1 {
		t.Fatalf("published = %+v, want one snapshot with total 1", published)
	}

	lister.set(nil, []Row{unreadRow("c1", 3)})
	source.onChange()
	if len(published) != 2 || published[1].UnreadTotal != 3 {
		t.Errorf("published = %+v, want second snapshot with total 3", published)
	}

	remove()
	source.onChange()
	if len(published) != 2 {
		t.Errorf("listener still invoked after removal")
	}
}

func TestGatePermission(t *testing.T) {
	notifier := &stubNotifier{}

	gate := NewGate(PermissionDefault, notifier, nil)
	_ = gate.Notify(context.Background(), "t", "b")
	if notifier.count() != 0 {
		t.Error("Notify delivered while permission undecided")
	}

	gate = NewGate(PermissionDenied, notifier, nil)
	_ = gate.Notify(context.Background(), "t", "b")
	if notifier.count() != 0 {
		t.Error("Notify delivered while permission denied")
	}

	gate = NewGate(PermissionGranted, notifier, nil)
	_ = gate.Notify(context.Background(), "t", "b")
	if notifier.count() != 1 {
		t.Error("Notify not delivered while permission granted")
	}
}

type grantingRequester struct{ asked int }

func (r *grantingRequester) Request(ctx context.Context) (Permission, error) {
	r.asked++
	return PermissionGranted, nil
}

func TestGateRequestPermission(t *testing.T) {
	requester := &grantingRequester{}
	gate := NewGate(PermissionDefault, &stubNotifier{}, requester)

	granted, err := gate.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("RequestPermission() = %v, %v, want granted", granted, err)
	}
	if requester.asked != 1 {
		t.Errorf("requester asked %d times, want 1", requester.asked)
	}

	// decided state must not prompt again
	granted, err = gate.RequestPermission(context.Background())
	if err != nil || !granted {
		t.Fatalf("second RequestPermission() = %v, %v", granted, err)
	}
	if requester.asked != 1 {
		t.Errorf("requester asked again after decision")
	}
}
