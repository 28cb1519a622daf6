package inbox

import "testing"

func unreadConv(id, lastSender string, unread int) Conversation {
	return Conversation{
		ID:                id,
		LastMessageSender: lastSender,
		UnreadCount:       map[string]int{"bob": unread},
	}
}

func TestAggregateTotal(t *testing.T) {
	convs := []Conversation{
		unreadConv("c1", "alice", 2),
		unreadConv("c2", "carol", 3),
		unreadConv("c3", "dave", 0),
	}

	got := Aggregate(convs, "bob", 0)
	if got.Total != 5 {
		t.Errorf("Total = %d, want 5", got.Total)
	}
}

func TestAggregateColdStartGuard(t *testing.T) {
	tests := []struct {
		name      string
		prevTotal int
		unread    int
		want      bool
	}{
		{name: "cold start must not fire", prevTotal: 0, unread: 5, want: false},
		{name: "growth from nonzero fires", prevTotal: 2, unread: 5, want: true},
		{name: "no growth", prevTotal: 5, unread: 5, want: false},
		{name: "shrink", prevTotal: 5, unread: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convs := []Conversation{unreadConv("c1", "alice", tt.unread)}
			got := Aggregate(convs, "bob", tt.prevTotal)
			if got.Increased != tt.want {
				t.Errorf("Increased = %v, want %v", got.Increased, tt.want)
			}
		})
	}
}

func TestAggregateChangedExcludesOwnSends(t *testing.T) {
	convs := []Conversation{
		unreadConv("incoming", "alice", 2),
		unreadConv("own echo pending", "bob", 1),
		unreadConv("read", "carol", 0),
	}

	got := Aggregate(convs, "bob", 1)
	if len(got.Changed) != 1 || got.Changed[0].ID != "incoming" {
		t.Errorf("Changed = %+v, want only the incoming conversation", got.Changed)
	}
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, "bob", 3)
	if got.Total != 0 || got.Increased || got.Changed != nil {
		t.Errorf("Aggregate(nil) = %+v, want zero result", got)
	}
}
