package implementation

import (
	"context"
	"errors"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/mapper"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/scope"
	"ai-chat-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created := r.mapper.ChatToEntity(m)
	created.Messages = chat.Messages
	*chat = *created
	return nil
}

// FindOne returns nil, nil when nothing matches.
func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindSummaries(ctx context.Context, limit int) ([]*entity.ChatSummary, error) {
	lastMessage := r.db.Table("messages").
		Select("content").
		Where("messages.chat_id = c.id").
		Scopes(scope.OrderByCreatedDesc).
		Limit(1)

	var rows []*model.ChatSummaryRow
	query := r.db.WithContext(ctx).
		Table("chats AS c").
		Select("c.id, c.title, c.updated_at, COALESCE((?), '') AS last_message", lastMessage).
		Scopes(scope.OrderByUpdatedDesc)
	query = specification.Limit{Limit: limit}.Apply(query)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]*entity.ChatSummary, len(rows))
	for i, row := range rows {
		summaries[i] = r.mapper.ChatSummaryToEntity(row)
	}
	return summaries, nil
}
