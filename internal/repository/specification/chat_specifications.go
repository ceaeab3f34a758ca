package specification

import (
	"ai-chat-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

// TranscriptOrder returns messages oldest first.
type TranscriptOrder struct{}

func (s TranscriptOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByCreatedAsc)
}
