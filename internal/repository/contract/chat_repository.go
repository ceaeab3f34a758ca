package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	// FindSummaries returns chats newest first, each with the content of its latest message.
	FindSummaries(ctx context.Context, limit int) ([]*entity.ChatSummary, error)
}
