package messaging

import (
	"time"

	"github.com/hongminglow/all-in-console/internal/models"
)

var demoLines = [][2]string{
	{"Hi! Did you get a chance to look at the Q3 occupancy report?", "Yes, the numbers for the north region look strong."},
	{"The labour forecast for next month is ready for review.", "Great, I'll go through it this afternoon."},
	{"Can you share the updated opportunity tiers?", "Sure, sending them over shortly."},
}

// DemoHistory builds a short exchange between me and each counterpart, the
// most recent one ending with an unread message from the counterpart.
func DemoHistory(me models.Identity, counterparts []models.Identity, now time.Time) []models.Message {
	var out []models.Message
	for i, c := range counterparts {
		if c.ID == me.ID {
			continue
		}
		lines := demoLines[i%len(demoLines)]
		base := now.Add(-time.Duration(len(counterparts)-i) * time.Hour)
		out = append(out,
			models.Message{
				SenderID:    c.ID,
				SenderName:  c.Name,
				RecipientID: me.ID,
				Content:     lines[0],
				Timestamp:   base,
				Read:        true,
			},
			models.Message{
				SenderID:    me.ID,
				SenderName:  me.Name,
				RecipientID: c.ID,
				Content:     lines[1],
				Timestamp:   base.Add(10 * time.Minute),
			},
		)
		if i == len(counterparts)-1 {
			out = append(out, models.Message{
				SenderID:    c.ID,
				SenderName:  c.Name,
				RecipientID: me.ID,
				Content:     "Thanks! Let me know if anything looks off.",
				Timestamp:   base.Add(20 * time.Minute),
			})
		}
	}
	return out
}
