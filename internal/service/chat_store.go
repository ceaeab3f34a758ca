package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/metrics"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/validator"

	"github.com/google/uuid"
)

// MaxListedChats caps every chat listing.
const MaxListedChats = 50

var ErrChatNotFound = errors.New("chat not found")

const storeModule = "ChatStore"

type IChatStore interface {
	CreateChat(ctx context.Context, title string, messages []*entity.Message) (uuid.UUID, error)
	ListChats(ctx context.Context, limit int) ([]*entity.ChatSummary, error)
	GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error)
}

type chatStore struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	metrics    *metrics.Collector
	now        func() time.Time
}

func NewChatStore(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	metrics *metrics.Collector,
) IChatStore {
	return &chatStore{
		uowFactory: uowFactory,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// CreateChat writes the chat row and all of its messages in one transaction.
// Message i is stamped t0 + i microseconds so created_at order is submission order.
func (s *chatStore) CreateChat(ctx context.Context, title string, messages []*entity.Message) (uuid.UUID, error) {
	if err := validator.ValidateTranscript(title, messages); err != nil {
		return uuid.Nil, err
	}

	// Postgres keeps microseconds; truncate so what we write is what we read back.
	t0 := s.now().UTC().Truncate(time.Microsecond)

	chat := &entity.Chat{
		Id:        uuid.New(),
		Title:     title,
		CreatedAt: t0,
		UpdatedAt: t0,
	}

	rows := make([]*entity.Message, len(messages))
	for i, msg := range messages {
		rows[i] = &entity.Message{
			Id:        uuid.New(),
			ChatId:    chat.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: t0.Add(time.Duration(i) * time.Microsecond),
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		s.logger.Error(storeModule, "Failed to insert chat", map[string]interface{}{"error": err})
		return uuid.Nil, fmt.Errorf("insert chat: %w", err)
	}

	if err := uow.MessageRepository().CreateBatch(ctx, rows); err != nil {
		s.logger.Error(storeModule, "Failed to insert messages", map[string]interface{}{
			"chat_id": chat.Id.String(),
			"error":   err,
		})
		return uuid.Nil, fmt.Errorf("insert messages: %w", err)
	}

	if err := uow.Commit(); err != nil {
		s.logger.Error(storeModule, "Failed to commit chat", map[string]interface{}{"error": err})
		return uuid.Nil, fmt.Errorf("commit chat: %w", err)
	}

	s.metrics.RecordChatSaved()
	s.logger.Info(storeModule, "Chat saved", map[string]interface{}{
		"chat_id":  chat.Id.String(),
		"messages": len(rows),
	})
	return chat.Id, nil
}

// ListChats returns the newest chats first. limit outside 1..50 means 50.
func (s *chatStore) ListChats(ctx context.Context, limit int) ([]*entity.ChatSummary, error) {
	if limit <= 0 || limit > MaxListedChats {
		limit = MaxListedChats
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	summaries, err := uow.ChatRepository().FindSummaries(ctx, limit)
	if err != nil {
		s.logger.Error(storeModule, "Failed to list chats", map[string]interface{}{"error": err})
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return summaries, nil
}

func (s *chatStore) GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, fmt.Errorf("find chat: %w", err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.TranscriptOrder{},
	)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	chat.Messages = messages
	return chat, nil
}
