package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-chat-be/internal/bootstrap"
	"ai-chat-be/internal/config"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

func testConfig(openAIURL string) *config.Config {
	return &config.Config{
		App:  config.AppConfig{Port: "0", Environment: "test", BodyLimitMB: 1},
		Keys: config.APIKeys{OpenAI: "sk-test"},
		Ai: config.AIConfig{
			OpenAIBaseURL:  openAIURL,
			DefaultModel:   "gpt-3.5-turbo",
			Temperature:    0.7,
			MaxTokens:      1000,
			TimeoutSeconds: 5,
		},
		Telemetry: config.TelemetryConfig{ServiceName: "ai-chat-test", MetricsEnabled: true},
	}
}

func request(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestServerEndToEnd(t *testing.T) {
	openAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Hello from the model"}}]}`))
	}))
	defer openAI.Close()

	db, err := database.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "chat.db")),
		database.PoolConfig{MaxIdleConns: 1, MaxOpenConns: 1, ConnMaxLifetime: time.Hour},
		gormlogger.Silent,
	)
	require.NoError(t, err)
	defer database.Close(db)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	cfg := testConfig(openAI.URL)
	srv := New(cfg, bootstrap.NewContainer(db, cfg, logger.NewNopLogger()))
	app := srv.GetApp()

	status, raw := request(t, app, fiber.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"Hi"}]}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var completion map[string]string
	require.NoError(t, json.Unmarshal(raw, &completion))
	assert.Equal(t, "Hello from the model", completion["message"])
	assert.NotEmpty(t, completion["request_id"])

	status, raw = request(t, app, fiber.MethodPost, "/api/save-chat",
		`{"title":"T","messages":[{"role":"user","content":"Hi"},{"role":"assistant","content":"Hello from the model"}]}`)
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var saved struct {
		ChatId string `json:"chat_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &saved))

	status, raw = request(t, app, fiber.MethodGet, "/api/get-chat?chat_id="+saved.ChatId, "")
	require.Equal(t, fiber.StatusOK, status, string(raw))

	var chat struct {
		Title    string `json:"title"`
		Messages []struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &chat))
	assert.Equal(t, "T", chat.Title)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, "user", chat.Messages[0].Role)
	assert.Equal(t, "assistant", chat.Messages[1].Role)
	_, err = time.Parse(time.RFC3339Nano, chat.Messages[0].Timestamp)
	assert.NoError(t, err)

	status, raw = request(t, app, fiber.MethodGet, "/api/get-chats", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), `"lastMessage":"Hello from the model"`)

	status, raw = request(t, app, fiber.MethodGet, "/metrics", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), "ai_chat_store_chats_saved_total 1")
	assert.Contains(t, string(raw), "ai_chat_completion_duration_seconds")
}

func TestServerWithoutDatabaseOrKey(t *testing.T) {
	cfg := testConfig("")
	cfg.Keys.OpenAI = ""
	cfg.Telemetry.MetricsEnabled = false

	app := New(cfg, bootstrap.NewContainer(nil, cfg, logger.NewNopLogger())).GetApp()

	status, raw := request(t, app, fiber.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"Hi"}]}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"OpenAI API key not configured"}`, string(raw))

	status, raw = request(t, app, fiber.MethodGet, "/api/get-chats", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Database not configured"}`, string(raw))

	status, _ = request(t, app, fiber.MethodGet, "/metrics", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
