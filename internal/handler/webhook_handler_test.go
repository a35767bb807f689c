package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/handler"
	"scan1c/internal/telegram"
)

type recordingBot struct {
	mu         sync.Mutex
	updates    []telegram.Update
	webhookURL string
	webhookErr error
}

func (b *recordingBot) HandleUpdate(_ context.Context, upd telegram.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, upd)
}

func (b *recordingBot) SetWebhook(url string) error {
	b.webhookURL = url
	return b.webhookErr
}

func webhookContext(secret, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/webhook/"+secret, bytes.NewBufferString(body))
	c.Params = gin.Params{{Key: "secret", Value: secret}}
	return c, w
}

func TestWebhookHandler_Receive(t *testing.T) {
	bot := &recordingBot{}
	h := handler.NewWebhookHandler(bot, "s3cret", "https://scan.example.com")

	c, w := webhookContext("s3cret", `{"update_id":77,"message":{"message_id":1,"chat":{"id":5,"type":"private"},"text":"hi"}}`)
	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Wait(ctx))
	require.Len(t, bot.updates, 1)
	assert.Equal(t, 77, bot.updates[0].UpdateID)
}

func TestWebhookHandler_Receive_WrongSecret(t *testing.T) {
	bot := &recordingBot{}
	h := handler.NewWebhookHandler(bot, "s3cret", "https://scan.example.com")

	c, w := webhookContext("guess", `{"update_id":1}`)
	h.Receive(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, bot.updates)
}

func TestWebhookHandler_Receive_MalformedAcknowledged(t *testing.T) {
	bot := &recordingBot{}
	h := handler.NewWebhookHandler(bot, "s3cret", "")

	c, w := webhookContext("s3cret", `{not json`)
	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
	assert.Empty(t, bot.updates)
}

func TestWebhookHandler_SetWebhook(t *testing.T) {
	bot := &recordingBot{}
	h := handler.NewWebhookHandler(bot, "s3cret", "https://scan.example.com/")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/set_webhook", http.NoBody)
	h.SetWebhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://scan.example.com/api/webhook/s3cret", bot.webhookURL)
	assert.JSONEq(t, `{"status":"set","webhook_url":"https://scan.example.com/api/webhook/s3cret"}`, w.Body.String())
}

func TestWebhookHandler_SetWebhook_Failures(t *testing.T) {
	t.Run("no public url", func(t *testing.T) {
		h := handler.NewWebhookHandler(&recordingBot{}, "s3cret", "")
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/set_webhook", http.NoBody)
		h.SetWebhook(c)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "PUBLIC_URL_NOT_SET")
	})

	t.Run("telegram error", func(t *testing.T) {
		h := handler.NewWebhookHandler(&recordingBot{webhookErr: errors.New("bad token")}, "s3cret", "https://x.example.com")
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/set_webhook", http.NoBody)
		h.SetWebhook(c)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
