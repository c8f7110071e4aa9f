package dto

import "github.com/hongminglow/all-in-console/internal/models"

type SendMessageRequest struct {
	RecipientID   string `json:"recipientId"`
	RecipientName string `json:"recipientName"`
	Content       string `json:"content"`
}

type ActiveConversationRequest struct {
	UserID string `json:"userId"`
}

type ConversationListResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	UnreadTotal   int                   `json:"unreadTotal"`
	Active        string                `json:"active,omitempty"`
}

type ThreadResponse struct {
	UserID   string           `json:"userId"`
	Messages []models.Message `json:"messages"`
}
