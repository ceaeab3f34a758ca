package entity

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the roles a transcript may carry.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

const MaxChatTitleLength = 255

type Chat struct {
	Id        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Messages  []*Message
}

type Message struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Role      Role
	Content   string
	CreatedAt time.Time
}

// ChatSummary is one row of the chat listing.
type ChatSummary struct {
	Id          uuid.UUID
	Title       string
	LastMessage string
	UpdatedAt   time.Time
}
