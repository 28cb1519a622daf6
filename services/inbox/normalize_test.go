package inbox

import (
	"reflect"
	"testing"
	"time"
)

func row(id, sender, recipient string, at time.Time, unread map[string]int) Row {
	return Row{
		ID:            id,
		SenderID:      sender,
		RecipientID:   recipient,
		SenderName:    "name-" + sender,
		RecipientName: "name-" + recipient,
		LastMessage:   "last-" + id,
		LastMessageAt: at,
		LastMessageBy: sender,
		UnreadCounts:  unread,
	}
}

func TestNormalizeProjection(t *testing.T) {
	at := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{row("c1", "alice", "bob", at, map[string]int{"bob": 3, "alice": 1})}

	got := Normalize(rows, nil, "bob")
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}

	conv := got[0]
	if conv.ID != "c1" {
		t.Errorf("ID = %q, want c1", conv.ID)
	}
	if !reflect.DeepEqual(conv.Participants, []string{"alice", "bob"}) {
		t.Errorf("Participants = %v", conv.Participants)
	}
	if conv.ParticipantNames["alice"] != "name-alice" || conv.ParticipantNames["bob"] != "name-bob" {
		t.Errorf("ParticipantNames = %v", conv.ParticipantNames)
	}
	// only the current user's counter is projected
	if !reflect.DeepEqual(conv.UnreadCount, map[string]int{"bob": 3}) {
		t.Errorf("UnreadCount = %v", conv.UnreadCount)
	}
	if conv.LastMessageSender != "alice" {
		t.Errorf("LastMessageSender = %q", conv.LastMessageSender)
	}
}

func TestNormalizeOrderIndependence(t *testing.T) {
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	a := row("c1", "alice", "bob", base.Add(2*time.Hour), nil)
	b := row("c2", "bob", "carol", base.Add(1*time.Hour), nil)
	c := row("c3", "dave", "bob", base.Add(3*time.Hour), nil)

	permutations := []struct {
		name        string
		asSender    []Row
		asRecipient []Row
	}{
		{"split one way", []Row{b}, []Row{a, c}},
		{"split other way", []Row{b}, []Row{c, a}},
		{"all sender side", []Row{c, b, a}, nil},
		{"all recipient side", nil, []Row{a, b, c}},
		{"duplicated across sides", []Row{a, b}, []Row{b, c}},
	}

	want := Normalize([]Row{a, b, c}, nil, "bob")
	for _, tt := range permutations {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.asSender, tt.asRecipient, "bob")
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Normalize() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestNormalizeSortsDescending(t *testing.T) {
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		row("old", "alice", "bob", base, nil),
		row("new", "carol", "bob", base.Add(time.Hour), nil),
		row("never", "dave", "bob", time.Time{}, nil), // no messages yet
	}

	got := Normalize(rows, nil, "bob")
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	if !reflect.DeepEqual(ids, []string{"new", "old", "never"}) {
		t.Errorf("order = %v, want [new old never]", ids)
	}
}

func TestNormalizeDropsUnattributableRows(t *testing.T) {
	at := time.Now()
	rows := []Row{
		row("ok", "alice", "bob", at, nil),
		{ID: "no-sender", RecipientID: "bob", LastMessageAt: at},
		{ID: "no-recipient", SenderID: "alice", LastMessageAt: at},
	}

	got := Normalize(rows, nil, "bob")
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("expected only the attributable row, got %+v", got)
	}
}

func TestNormalizeDedupPrefersFirstOccurrence(t *testing.T) {
	at := time.Now()
	first := row("c1", "alice", "bob", at, map[string]int{"bob": 2})
	second := row("c1", "alice", "bob", at, map[string]int{"bob": 9})

	got := Normalize([]Row{first}, []Row{second}, "bob")
	if len(got) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(got))
	}
	if got[0].UnreadCount["bob"] != 2 {
		t.Errorf("UnreadCount = %d, want first occurrence's 2", got[0].UnreadCount["bob"])
	}
}

func TestNormalizeFallsBackToRowID(t *testing.T) {
	at := time.Now()
	withKey := row("r1", "alice", "bob", at, nil)
	withKey.ConversationID = "canonical"

	got := Normalize([]Row{withKey}, nil, "bob")
	if got[0].ID != "canonical" {
		t.Errorf("ID = %q, want canonical", got[0].ID)
	}

	withoutKey := row("r2", "alice", "bob", at, nil)
	got = Normalize([]Row{withoutKey}, nil, "bob")
	if got[0].ID != "r2" {
		t.Errorf("ID = %q, want fallback r2", got[0].ID)
	}
}
