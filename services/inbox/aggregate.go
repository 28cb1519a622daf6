package inbox

// AggregateResult reports the unread totals for one recompute pass.
type AggregateResult struct {
	// Total is the sum of the user's unread counters across conversations.
	Total int
	// Increased is true only when the total grew AND the previous total was
	// nonzero. A cold start from zero must not fire a notification burst for
	// historic unread messages.
	Increased bool
	// Changed holds the conversations that are unread because of an incoming
	// message, not a locally-sent one awaiting server echo.
	Changed []Conversation
}

// Aggregate sums the per-conversation unread counters for the user and
// compares against the previous total.
func Aggregate(convs []Conversation, currentUserID string, prevTotal int) AggregateResult {
	total := 0
	var changed []Conversation
	for _, conv := range convs {
		n := conv.UnreadCount[currentUserID]
		total += n
		if n > 0 && conv.LastMessageSender != currentUserID {
			changed = append(changed, conv)
		}
	}

	return AggregateResult{
		Total:     total,
		Increased: total > prevTotal && prevTotal > 0,
		Changed:   changed,
	}
}
