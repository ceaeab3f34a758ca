package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresChatStore(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.DefaultPoolConfig(), false)
	require.NoError(t, err, "connect to postgres")
	defer database.Close(db)

	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	sqlDB, _ := db.DB()
	assert.NoError(t, sqlDB.Ping())

	store := service.NewChatStore(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger(), nil)
	ctx := context.Background()

	id, err := store.CreateChat(ctx, "integration", []*entity.Message{
		{Role: entity.RoleUser, Content: "hi"},
		{Role: entity.RoleAssistant, Content: "hello"},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Where("id = ?", id).Delete(&model.Chat{})
	})

	t.Run("Get returns messages in order", func(t *testing.T) {
		chat, err := store.GetChat(ctx, id)
		require.NoError(t, err)
		require.Len(t, chat.Messages, 2)
		assert.Equal(t, "hi", chat.Messages[0].Content)
		assert.Equal(t, "hello", chat.Messages[1].Content)
	})

	t.Run("List shows latest message", func(t *testing.T) {
		chats, err := store.ListChats(ctx, service.MaxListedChats)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(chats), service.MaxListedChats)

		for _, c := range chats {
			if c.Id == id {
				assert.Equal(t, "hello", c.LastMessage)
				return
			}
		}
		t.Fatalf("chat %s missing from listing", id)
	})
}
