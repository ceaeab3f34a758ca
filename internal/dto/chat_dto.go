package dto

import (
	"github.com/google/uuid"
)

type ChatMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- Completion ---

type ChatCompletionRequest struct {
	Messages []ChatMessageRequest `json:"messages"`
	Model    string               `json:"model,omitempty"`
}

type ChatCompletionResponse struct {
	Message   string `json:"message"`
	Model     string `json:"model"`
	RequestId string `json:"request_id"`
}

// --- Transcript store ---

type SaveChatRequest struct {
	Title    string               `json:"title"`
	Messages []ChatMessageRequest `json:"messages"`
}

type SaveChatResponse struct {
	ChatId  uuid.UUID `json:"chat_id"`
	Message string    `json:"message"`
}

type ChatSummaryResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage"`
	Date        string    `json:"date"`
}

type ListChatsResponse struct {
	Chats []*ChatSummaryResponse `json:"chats"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
}

type GetChatResponse struct {
	Id       uuid.UUID              `json:"id"`
	Title    string                 `json:"title"`
	Messages []*ChatMessageResponse `json:"messages"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
