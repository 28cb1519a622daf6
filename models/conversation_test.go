package models

import "testing"

func TestConversationKeyFor(t *testing.T) {
	tests := []struct {
		name  string
		a, b  uint
		gigID uint
		want  string
	}{
		{"ordered pair", 3, 9, 0, "3_9"},
		{"reversed pair gives same key", 9, 3, 0, "3_9"},
		{"same pair different gig", 3, 9, 42, "3_9_g42"},
		{"gig key is order independent", 9, 3, 42, "3_9_g42"},
		{"self pair", 5, 5, 0, "5_5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConversationKeyFor(tt.a, tt.b, tt.gigID); got != tt.want {
				t.Errorf("ConversationKeyFor(%d, %d, %d) = %q, want %q", tt.a, tt.b, tt.gigID, got, tt.want)
			}
		})
	}
}

func TestParticipantsKeyFor(t *testing.T) {
	got := ParticipantsKeyFor(4, 7)
	want := "4_7,7_4"
	if got != want {
		t.Errorf("ParticipantsKeyFor(4, 7) = %q, want %q", got, want)
	}
}

func TestUnreadMapRoundTrip(t *testing.T) {
	m := UnreadMap{"3": 2, "9": 0}
	v, err := m.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var back UnreadMap
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if back["3"] != 2 || back["9"] != 0 {
		t.Errorf("round trip changed contents: %v", back)
	}
}

func TestUnreadMapScanNil(t *testing.T) {
	var m UnreadMap
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if m == nil {
		t.Error("expected empty map, got nil")
	}
}
