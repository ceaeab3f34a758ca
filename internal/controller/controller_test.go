package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeCompletion struct {
	calls int
	reply string
	err   error
	last  *dto.ChatCompletionRequest
}

func (f *fakeCompletion) Complete(ctx context.Context, req *dto.ChatCompletionRequest) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

// fakeStore keeps chats in memory in insertion order.
type fakeStore struct {
	chats   []*entity.Chat
	listErr error
	listArg int
}

func (f *fakeStore) CreateChat(ctx context.Context, title string, messages []*entity.Message) (uuid.UUID, error) {
	chat := &entity.Chat{Id: uuid.New(), Title: title}
	for _, m := range messages {
		chat.Messages = append(chat.Messages, &entity.Message{
			Id: uuid.New(), ChatId: chat.Id, Role: m.Role, Content: m.Content,
		})
	}
	f.chats = append(f.chats, chat)
	return chat.Id, nil
}

func (f *fakeStore) ListChats(ctx context.Context, limit int) ([]*entity.ChatSummary, error) {
	f.listArg = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entity.ChatSummary, 0)
	for i := len(f.chats) - 1; i >= 0 && len(out) < limit; i-- {
		c := f.chats[i]
		out = append(out, &entity.ChatSummary{
			Id:          c.Id,
			Title:       c.Title,
			LastMessage: c.Messages[len(c.Messages)-1].Content,
		})
	}
	return out, nil
}

func (f *fakeStore) GetChat(ctx context.Context, chatId uuid.UUID) (*entity.Chat, error) {
	for _, c := range f.chats {
		if c.Id == chatId {
			return c, nil
		}
	}
	return nil, service.ErrChatNotFound
}

func newTestApp(completion service.ICompletionService, store service.IChatStore) *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(log)})
	app.Use(requestid.New())
	app.Use(serverutils.RequestLogger(log))

	api := app.Group("/api")
	NewCompletionController(completion, "gpt-3.5-turbo").RegisterRoutes(api)
	NewChatController(store).RegisterRoutes(api)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeJSON(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

