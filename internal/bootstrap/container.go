package bootstrap

import (
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/metrics"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/llm/openai"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CompletionController controller.ICompletionController
	ChatController       controller.IChatController

	Logger  logger.ILogger
	Metrics *metrics.Collector
}

// NewContainer wires the application graph. db may be nil when DATABASE_URL is
// unset and the store endpoints then answer 500. The same goes for a missing
// OpenAI key and the completion endpoint.
func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	var collector *metrics.Collector
	if cfg.Telemetry.MetricsEnabled {
		collector = metrics.NewCollector()
	}

	var chatStore service.IChatStore
	if db != nil {
		uowFactory := unitofwork.NewRepositoryFactory(db)
		chatStore = service.NewChatStore(uowFactory, sysLogger, collector)
	} else {
		sysLogger.Warn("Bootstrap", "DATABASE_URL not set, chat store endpoints disabled", nil)
	}

	var completionService service.ICompletionService
	if cfg.OpenAIConfigured() {
		provider := openai.NewProvider(openai.Config{
			APIKey:      cfg.Keys.OpenAI,
			BaseURL:     cfg.Ai.OpenAIBaseURL,
			Model:       cfg.Ai.DefaultModel,
			Temperature: cfg.Ai.Temperature,
			MaxTokens:   cfg.Ai.MaxTokens,
			Timeout:     time.Duration(cfg.Ai.TimeoutSeconds) * time.Second,
		})
		completionService = service.NewCompletionService(provider, service.CompletionSettings{
			DefaultModel: cfg.Ai.DefaultModel,
			Temperature:  cfg.Ai.Temperature,
			MaxTokens:    cfg.Ai.MaxTokens,
		}, sysLogger, collector)
	} else {
		sysLogger.Warn("Bootstrap", "OPENAI_API_KEY not set, completion endpoint disabled", nil)
	}

	return &Container{
		CompletionController: controller.NewCompletionController(completionService, cfg.Ai.DefaultModel),
		ChatController:       controller.NewChatController(chatStore),
		Logger:               sysLogger,
		Metrics:              collector,
	}
}
