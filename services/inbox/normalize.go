package inbox

import "sort"

// Normalize merges the sender-side and recipient-side result sets into one
// de-duplicated, ordered conversation list. The result is identical for any
// arrival order of the two sets: de-dup runs on the canonical conversation
// key and ordering is fully determined by (last message time, key).
func Normalize(asSender, asRecipient []Row, currentUserID string) []Conversation {
	rows := make([]Row, 0, len(asSender)+len(asRecipient))
	rows = append(rows, asSender...)
	rows = append(rows, asRecipient...)

	seen := make(map[string]bool, len(rows))
	convs := make([]Conversation, 0, len(rows))
	for _, row := range rows {
		// a row with no attributable participant pair is unusable
		if row.SenderID == "" || row.RecipientID == "" {
			continue
		}
		key := row.ConversationID
		if key == "" {
			key = row.ID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		convs = append(convs, project(row, key, currentUserID))
	}

	sort.SliceStable(convs, func(i, j int) bool {
		if !convs[i].LastMessageTime.Equal(convs[j].LastMessageTime) {
			return convs[i].LastMessageTime.After(convs[j].LastMessageTime)
		}
		return convs[i].ID < convs[j].ID
	})

	return convs
}

func project(row Row, key, currentUserID string) Conversation {
	lastSender := row.LastMessageBy
	if lastSender == "" {
		lastSender = row.SenderID
	}
	return Conversation{
		ID:           key,
		Participants: []string{row.SenderID, row.RecipientID},
		ParticipantNames: map[string]string{
			row.SenderID:    row.SenderName,
			row.RecipientID: row.RecipientName,
		},
		ParticipantAvatars: map[string]string{
			row.SenderID:    row.SenderAvatar,
			row.RecipientID: row.RecipientAvatar,
		},
		LastMessage:       row.LastMessage,
		LastMessageTime:   row.LastMessageAt,
		LastMessageSender: lastSender,
		UnreadCount: map[string]int{
			currentUserID: row.UnreadCounts[currentUserID],
		},
		GigID:    row.GigID,
		GigTitle: row.GigTitle,
	}
}
