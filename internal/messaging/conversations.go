package messaging

import (
	"sort"

	"github.com/hongminglow/all-in-console/internal/models"
)

// buildConversations groups messages by counterpart of me. The latest message
// wins ties by log position, and only messages addressed to me count as unread.
func buildConversations(messages []models.Message, me string, names map[string]string) []models.Conversation {
	type entry struct {
		conv models.Conversation
		seq  int
	}
	byUser := make(map[string]*entry)
	for i, m := range messages {
		other := counterpart(m, me)
		if other == "" {
			continue
		}
		e, ok := byUser[other]
		if !ok {
			e = &entry{conv: models.Conversation{UserID: other}, seq: -1}
			byUser[other] = e
		}
		if e.seq < 0 || !m.Timestamp.Before(e.conv.Timestamp) {
			e.conv.LastMessage = m.Content
			e.conv.Timestamp = m.Timestamp
			e.seq = i
		}
		if m.RecipientID == me && !m.Read {
			e.conv.UnreadCount++
		}
		if m.SenderID == other && m.SenderName != "" {
			e.conv.UserName = m.SenderName
		}
	}

	entries := make([]*entry, 0, len(byUser))
	for id, e := range byUser {
		if name, ok := names[id]; ok {
			e.conv.UserName = name
		} else if e.conv.UserName == "" {
			e.conv.UserName = id
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.conv.Timestamp.Equal(b.conv.Timestamp) {
			return a.conv.Timestamp.After(b.conv.Timestamp)
		}
		return a.seq > b.seq
	})

	out := make([]models.Conversation, len(entries))
	for i, e := range entries {
		out[i] = e.conv
	}
	return out
}
