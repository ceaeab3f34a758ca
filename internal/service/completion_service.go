package service

import (
	"context"
	"errors"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/metrics"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/llm"
)

const completionModule = "Completion"

type ICompletionService interface {
	// Complete forwards the transcript to the provider and returns the reply text.
	// A non-200 provider answer comes back as *llm.UpstreamError.
	Complete(ctx context.Context, req *dto.ChatCompletionRequest) (string, error)
}

// CompletionSettings are the sampling parameters sent with every call.
type CompletionSettings struct {
	DefaultModel string
	Temperature  float64
	MaxTokens    int
}

type completionService struct {
	provider llm.LLMProvider
	settings CompletionSettings
	logger   logger.ILogger
	metrics  *metrics.Collector
}

func NewCompletionService(
	provider llm.LLMProvider,
	settings CompletionSettings,
	logger logger.ILogger,
	metrics *metrics.Collector,
) ICompletionService {
	return &completionService{
		provider: provider,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// modelLabel keeps the metric label set bounded: the model name comes from the client.
func (s *completionService) modelLabel(model string) string {
	if model == s.settings.DefaultModel {
		return model
	}
	return metrics.ModelOther
}

func (s *completionService) Complete(ctx context.Context, req *dto.ChatCompletionRequest) (string, error) {
	history := make([]llm.Message, len(req.Messages))
	for i, msg := range req.Messages {
		history[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}

	start := time.Now()
	reply, err := s.provider.Chat(ctx, history,
		llm.WithModel(req.Model),
		llm.WithTemperature(s.settings.Temperature),
		llm.WithMaxTokens(s.settings.MaxTokens),
	)
	elapsed := time.Since(start)
	label := s.modelLabel(req.Model)

	if err != nil {
		outcome := metrics.OutcomeError
		details := map[string]interface{}{
			"model":      req.Model,
			"latency_ms": elapsed.Milliseconds(),
			"error":      err,
		}

		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			outcome = metrics.OutcomeUpstream
			details["status"] = upstream.StatusCode
		}

		s.metrics.RecordCompletion(label, outcome, elapsed)
		s.logger.Error(completionModule, "Provider call failed", details)
		return "", err
	}

	s.metrics.RecordCompletion(label, metrics.OutcomeSuccess, elapsed)
	s.logger.Debug(completionModule, "Provider call succeeded", map[string]interface{}{
		"model":      req.Model,
		"messages":   len(history),
		"latency_ms": elapsed.Milliseconds(),
	})
	return reply, nil
}
