// This file defines Sendable, the tagged envelope for anything transmitted
// in a chat, and the enumerated payload types of its variants.
package domain

import (
	"fmt"
	"time"
)

type SendableType string

const (
	SendableTypeMessage         SendableType = "message"
	SendableTypeTypingState     SendableType = "typingState"
	SendableTypeDeliveryReceipt SendableType = "deliveryReceipt"
	SendableTypeUserEvent       SendableType = "userEvent"
	SendableTypeInvitation      SendableType = "invitation"
)

type TypingStateType string

const (
	TypingStateTyping  TypingStateType = "typing"
	TypingStateStopped TypingStateType = "stopped"
)

type DeliveryReceiptType string

const (
	DeliveryReceiptReceived DeliveryReceiptType = "received"
	DeliveryReceiptRead     DeliveryReceiptType = "read"
)

// Supersedes reports whether t may replace prev for the same message and
// recipient. Read implies received, so a received receipt arriving after a
// read one must not downgrade the stored state.
func (t DeliveryReceiptType) Supersedes(prev DeliveryReceiptType) bool {
	if prev == DeliveryReceiptRead {
		return false
	}
	return t == DeliveryReceiptRead || prev == ""
}

type UserEventAction string

const (
	UserEventAdd    UserEventAction = "add"
	UserEventRemove UserEventAction = "remove"
	UserEventUpdate UserEventAction = "update"
)

// InvitationTypeChat is the only invitation kind currently defined: an
// invitation to join a chat, carrying the chat id in its body.
const InvitationTypeChat = "chat"

// Sendable is the generic envelope: an id assigned on write, the sender,
// a type tag, a timestamp used as the ordering key, and a body mapping
// holding the variant payload. Unknown type tags are preserved verbatim
// so newer peers stay readable.
type Sendable struct {
	ID   string
	From string
	Type SendableType
	Date time.Time
	Body map[string]any
}

func NewMessage(from, text string) Sendable {
	return NewMessageWithBody(from, map[string]any{"text": text})
}

func NewMessageWithBody(from string, body map[string]any) Sendable {
	return Sendable{From: from, Type: SendableTypeMessage, Body: body}
}

func NewTypingState(from string, state TypingStateType) Sendable {
	return Sendable{
		From: from,
		Type: SendableTypeTypingState,
		Body: map[string]any{KeyStatus: string(state)},
	}
}

func NewDeliveryReceipt(from string, receipt DeliveryReceiptType, messageID string) Sendable {
	return Sendable{
		From: from,
		Type: SendableTypeDeliveryReceipt,
		Body: map[string]any{
			KeyStatus:    string(receipt),
			KeyMessageID: messageID,
		},
	}
}

func NewUserEvent(from string, action UserEventAction, role RoleType) Sendable {
	return Sendable{
		From: from,
		Type: SendableTypeUserEvent,
		Body: map[string]any{
			KeyAction: string(action),
			KeyRole:   string(role),
		},
	}
}

func NewInvitation(from, chatID string) Sendable {
	return Sendable{
		From: from,
		Type: SendableTypeInvitation,
		Body: map[string]any{
			KeyType: InvitationTypeChat,
			KeyID:   chatID,
		},
	}
}

// Fields returns the wire form of the envelope. The id is not part of the
// fields: it is the record's key in the store. The date is carried as unix
// milliseconds.
func (s Sendable) Fields() map[string]any {
	body := s.Body
	if body == nil {
		body = map[string]any{}
	}
	return map[string]any{
		KeyFrom: s.From,
		KeyType: string(s.Type),
		KeyDate: s.Date.UnixMilli(),
		KeyBody: body,
	}
}

// Text returns the text body of a message sendable, or the empty string
// when absent.
func (s Sendable) Text() string {
	text, _ := asString(s.Body["text"])
	return text
}

// TypingState extracts the typing payload of a typingState sendable.
func (s Sendable) TypingState() (TypingStateType, error) {
	status, ok := asString(s.Body[KeyStatus])
	if !ok {
		return "", fmt.Errorf("sendable %s: missing typing status", s.ID)
	}
	return TypingStateType(status), nil
}

// DeliveryReceipt extracts the receipt payload of a deliveryReceipt
// sendable.
func (s Sendable) DeliveryReceipt() (DeliveryReceiptType, string, error) {
	status, ok := asString(s.Body[KeyStatus])
	if !ok {
		return "", "", fmt.Errorf("sendable %s: missing receipt status", s.ID)
	}
	messageID, ok := asString(s.Body[KeyMessageID])
	if !ok {
		return "", "", fmt.Errorf("sendable %s: missing receipt message id", s.ID)
	}
	return DeliveryReceiptType(status), messageID, nil
}

// UserEvent extracts the roster payload of a userEvent sendable.
func (s Sendable) UserEvent() (UserEventAction, RoleType, error) {
	action, ok := asString(s.Body[KeyAction])
	if !ok {
		return "", "", fmt.Errorf("sendable %s: missing user event action", s.ID)
	}
	role, _ := asString(s.Body[KeyRole])
	return UserEventAction(action), RoleType(role), nil
}

// SendableFromFields rebuilds a Sendable from a stored record. The id
// comes from the record's key, everything else from its fields.
func SendableFromFields(id string, fields map[string]any) (Sendable, error) {
	from, ok := asString(fields[KeyFrom])
	if !ok {
		return Sendable{}, fmt.Errorf("sendable %s: missing sender", id)
	}
	tag, ok := asString(fields[KeyType])
	if !ok {
		return Sendable{}, fmt.Errorf("sendable %s: missing type tag", id)
	}
	sendable := Sendable{ID: id, From: from, Type: SendableType(tag)}
	if date, ok := asInt64(fields[KeyDate]); ok {
		sendable.Date = time.UnixMilli(date).UTC()
	}
	if body, ok := asMap(fields[KeyBody]); ok {
		sendable.Body = body
	} else {
		sendable.Body = map[string]any{}
	}
	return sendable, nil
}
