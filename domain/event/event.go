// Package event defines the payloads published on a chat's event streams.
package event

import (
	"time"

	"chatstream/domain"
)

type UserEventType string

const (
	UserAdded   UserEventType = "added"
	UserRemoved UserEventType = "removed"
	UserUpdated UserEventType = "updated"
)

// UserEvent reports one roster reconciliation: a user was added to,
// removed from, or updated in the chat.
type UserEvent struct {
	Type UserEventType
	User domain.User
}

// Message is a message sendable as published on the messages stream.
type Message struct {
	ID   string
	From string
	Date time.Time
	Body map[string]any
}

func (m Message) Text() string {
	text, _ := m.Body["text"].(string)
	return text
}

// TypingState reports a change of a member's typing indicator.
type TypingState struct {
	From  string
	State domain.TypingStateType
	Date  time.Time
}

// DeliveryReceipt reports a recipient's delivery state for one message.
type DeliveryReceipt struct {
	From      string
	MessageID string
	Type      domain.DeliveryReceiptType
	Date      time.Time
}
