package controller

import (
	"errors"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/validator"
	"ai-chat-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

const (
	errOpenAIKeyMissing = "OpenAI API key not configured"
	errOpenAIUpstream   = "OpenAI API error"
)

type ICompletionController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type completionController struct {
	// nil when OPENAI_API_KEY is not set
	service      service.ICompletionService
	defaultModel string
}

func NewCompletionController(service service.ICompletionService, defaultModel string) ICompletionController {
	return &completionController{
		service:      service,
		defaultModel: defaultModel,
	}
}

func (c *completionController) RegisterRoutes(r fiber.Router) {
	r.All("/chat", serverutils.Endpoint(fiber.MethodPost, c.Chat))
}

func (c *completionController) Chat(ctx *fiber.Ctx) error {
	if c.service == nil {
		return serverutils.ConfigurationMissing(errOpenAIKeyMissing)
	}

	req, err := validator.ParseChatCompletionRequest(ctx.Body(), c.defaultModel)
	if err != nil {
		return serverutils.ValidationFailed(err)
	}

	reply, err := c.service.Complete(ctx.UserContext(), req)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			return serverutils.Upstream(upstream.StatusCode, errOpenAIUpstream, upstream.Body)
		}
		return err
	}

	return serverutils.JSON(ctx, fiber.StatusOK, dto.ChatCompletionResponse{
		Message:   reply,
		Model:     req.Model,
		RequestId: serverutils.RequestID(ctx),
	})
}
