// Package validator turns raw request bodies into typed requests.
// Every rule is an explicit check; violations are collected so the caller
// sees all of them in one message.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"

	"go.uber.org/multierr"
)

var ErrMalformedBody = errors.New("request body is not valid JSON")

// ValidationError aggregates every violated constraint of one request.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return multierr.Errors(e.err)
}

// Violations lists the individual constraint failures.
func (e *ValidationError) Violations() []string {
	errs := multierr.Errors(e.err)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func newValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{err: err}
}

func violation(field, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", field, fmt.Sprintf(format, args...))
}

func decode(body []byte, dst interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return newValidationError(fmt.Errorf("%w: %v", ErrMalformedBody, err))
	}
	return nil
}

// ParseChatCompletionRequest validates a completion body. An absent or empty
// model falls back to defaultModel.
func ParseChatCompletionRequest(body []byte, defaultModel string) (*dto.ChatCompletionRequest, error) {
	var req dto.ChatCompletionRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	if err := newValidationError(validateMessages(req.Messages)); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Model) == "" {
		req.Model = defaultModel
	}
	return &req, nil
}

// ParseSaveChatRequest validates a save-chat body.
func ParseSaveChatRequest(body []byte) (*dto.SaveChatRequest, error) {
	var req dto.SaveChatRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}

	errs := multierr.Combine(
		ValidateTitle(req.Title),
		validateMessages(req.Messages),
	)
	if err := newValidationError(errs); err != nil {
		return nil, err
	}
	return &req, nil
}

// ValidateTitle checks the 1..255 character bound of a chat title.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 {
		return violation("title", "must not be empty")
	}
	if n > entity.MaxChatTitleLength {
		return violation("title", "must be at most %d characters", entity.MaxChatTitleLength)
	}
	return nil
}

// ValidateMessage checks role membership and non-empty content.
func ValidateMessage(field string, role entity.Role, content string) error {
	var err error
	if !role.Valid() {
		err = multierr.Append(err, violation(field+".role", "must be one of user, assistant, system (got %q)", string(role)))
	}
	if content == "" {
		err = multierr.Append(err, violation(field+".content", "must not be empty"))
	}
	return err
}

func validateMessages(messages []dto.ChatMessageRequest) error {
	if len(messages) == 0 {
		return violation("messages", "at least one message is required")
	}

	var err error
	for i, msg := range messages {
		field := fmt.Sprintf("messages[%d]", i)
		err = multierr.Append(err, ValidateMessage(field, entity.Role(msg.Role), msg.Content))
	}
	return err
}

// ValidateTranscript checks the invariants of a chat about to be persisted.
func ValidateTranscript(title string, messages []*entity.Message) error {
	err := ValidateTitle(title)
	if len(messages) == 0 {
		err = multierr.Append(err, violation("messages", "at least one message is required"))
	}
	for i, msg := range messages {
		if msg == nil {
			err = multierr.Append(err, violation(fmt.Sprintf("messages[%d]", i), "must not be null"))
			continue
		}
		err = multierr.Append(err, ValidateMessage(fmt.Sprintf("messages[%d]", i), msg.Role, msg.Content))
	}
	return newValidationError(err)
}
