package model

import (
	"time"

	"github.com/google/uuid"
)

type Chat struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;index"`
	Messages  []Message `gorm:"foreignKey:ChatId;constraint:OnDelete:CASCADE"`
}

func (Chat) TableName() string {
	return "chats"
}

type Message struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatId    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	Role      string    `gorm:"type:varchar(20);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_messages_chat_created,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

// ChatSummaryRow is the projection scanned by the chat listing query.
type ChatSummaryRow struct {
	Id          uuid.UUID
	Title       string
	UpdatedAt   time.Time
	LastMessage string
}

// AllModels lists every table owned by the service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Chat{},
		&Message{},
	}
}
