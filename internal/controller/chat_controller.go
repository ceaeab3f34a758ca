package controller

import (
	"errors"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	errDatabaseMissing = "Database not configured"
	errChatIdRequired  = "chat_id is required"
	errChatNotFound    = "Chat not found"
	chatSavedMessage   = "Chat saved successfully"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	ListChats(ctx *fiber.Ctx) error
	GetChat(ctx *fiber.Ctx) error
	SaveChat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatController struct {
	// nil when DATABASE_URL is not set
	store service.IChatStore
}

func NewChatController(store service.IChatStore) IChatController {
	return &chatController{store: store}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.All("/get-chats", serverutils.Endpoint(fiber.MethodGet, c.ListChats))
	r.All("/get-chat", serverutils.Endpoint(fiber.MethodGet, c.GetChat))
	r.All("/save-chat", serverutils.Endpoint(fiber.MethodPost, c.SaveChat))
	r.All("/health", serverutils.Endpoint(fiber.MethodGet, c.Health))
}

func (c *chatController) ListChats(ctx *fiber.Ctx) error {
	if c.store == nil {
		return serverutils.ConfigurationMissing(errDatabaseMissing)
	}

	summaries, err := c.store.ListChats(ctx.UserContext(), service.MaxListedChats)
	if err != nil {
		return err
	}

	res := dto.ListChatsResponse{Chats: make([]*dto.ChatSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		res.Chats = append(res.Chats, &dto.ChatSummaryResponse{
			Id:          s.Id,
			Title:       s.Title,
			LastMessage: s.LastMessage,
			Date:        formatTimestamp(s.UpdatedAt),
		})
	}

	return serverutils.JSON(ctx, fiber.StatusOK, res)
}

func (c *chatController) GetChat(ctx *fiber.Ctx) error {
	rawId := ctx.Query("chat_id")
	if rawId == "" {
		return serverutils.BadRequest(errChatIdRequired)
	}

	if c.store == nil {
		return serverutils.ConfigurationMissing(errDatabaseMissing)
	}

	// An id that cannot exist is answered like an unknown one.
	chatId, err := uuid.Parse(rawId)
	if err != nil {
		return serverutils.NotFound(errChatNotFound)
	}

	chat, err := c.store.GetChat(ctx.UserContext(), chatId)
	if err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			return serverutils.NotFound(errChatNotFound)
		}
		return err
	}

	res := dto.GetChatResponse{
		Id:       chat.Id,
		Title:    chat.Title,
		Messages: make([]*dto.ChatMessageResponse, 0, len(chat.Messages)),
	}
	for _, msg := range chat.Messages {
		res.Messages = append(res.Messages, &dto.ChatMessageResponse{
			Id:        msg.Id,
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: formatTimestamp(msg.CreatedAt),
		})
	}

	return serverutils.JSON(ctx, fiber.StatusOK, res)
}

func (c *chatController) SaveChat(ctx *fiber.Ctx) error {
	if c.store == nil {
		return serverutils.ConfigurationMissing(errDatabaseMissing)
	}

	req, err := validator.ParseSaveChatRequest(ctx.Body())
	if err != nil {
		return serverutils.ValidationFailed(err)
	}

	messages := make([]*entity.Message, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = &entity.Message{Role: entity.Role(msg.Role), Content: msg.Content}
	}

	chatId, err := c.store.CreateChat(ctx.UserContext(), req.Title, messages)
	if err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			return serverutils.ValidationFailed(err)
		}
		return err
	}

	return serverutils.JSON(ctx, fiber.StatusOK, dto.SaveChatResponse{
		ChatId:  chatId,
		Message: chatSavedMessage,
	})
}

func (c *chatController) Health(ctx *fiber.Ctx) error {
	database := "configured"
	if c.store == nil {
		database = "not_configured"
	}
	return serverutils.JSON(ctx, fiber.StatusOK, dto.HealthResponse{Status: "ok", Database: database})
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
