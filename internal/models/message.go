package models

import "time"

// Message is a direct message between the current identity and one counterpart.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// Conversation summarises the thread with one counterpart. It is derived from
// the message log and never stored.
type Conversation struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	UnreadCount int       `json:"unreadCount"`
}
