package handler

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"scan1c/internal/middleware"
	"scan1c/internal/telegram"
)

const maxUpdateBytes = 1 << 20

// UpdateHandler processes Telegram updates and manages the webhook.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd telegram.Update)
	SetWebhook(url string) error
}

// WebhookHandler receives Telegram updates over HTTP.
type WebhookHandler struct {
	bot       UpdateHandler
	secret    string
	publicURL string
	wg        sync.WaitGroup
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(bot UpdateHandler, secret, publicURL string) *WebhookHandler {
	return &WebhookHandler{bot: bot, secret: secret, publicURL: strings.TrimRight(publicURL, "/")}
}

// WebhookURL is the address Telegram is told to deliver updates to.
func (h *WebhookHandler) WebhookURL() string {
	return h.publicURL + "/api/webhook/" + h.secret
}

// Receive handles POST /api/webhook/:secret
// @Summary Telegram webhook
// @Description Updates are acknowledged immediately and processed in the background.
// @Tags telegram
// @Accept json
// @Produce json
// @Param secret path string true "Webhook secret"
// @Success 200 {object} WebhookStatus
// @Failure 404 {object} ErrorResponseBody "Unknown secret"
// @Router /api/webhook/{secret} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(h.secret)) != 1 {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpdateBytes))
	if err != nil {
		c.JSON(http.StatusOK, WebhookStatus{Status: "error", Message: err.Error()})
		return
	}
	upd, err := telegram.DecodeUpdate(body)
	if err != nil {
		// Telegram redelivers on non-2xx; a malformed update never succeeds.
		logrus.WithField("request_id", c.GetString(middleware.RequestIDKey)).Warnf("webhook: %v", err)
		c.JSON(http.StatusOK, WebhookStatus{Status: "error", Message: err.Error()})
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.bot.HandleUpdate(ctx, upd)
	}()
	c.JSON(http.StatusOK, WebhookStatus{Status: "ok"})
}

// SetWebhook handles GET /api/set_webhook
// @Summary Register the Telegram webhook
// @Tags telegram
// @Produce json
// @Success 200 {object} WebhookStatus
// @Failure 500 {object} ErrorResponseBody
// @Router /api/set_webhook [get]
func (h *WebhookHandler) SetWebhook(c *gin.Context) {
	if h.publicURL == "" {
		RespondError(c, http.StatusInternalServerError, "PUBLIC_URL_NOT_SET", "server.public_url is not configured")
		return
	}
	url := h.WebhookURL()
	if err := h.bot.SetWebhook(url); err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, WebhookStatus{Status: "set", WebhookURL: url})
}

// Wait blocks until in-flight updates finish or ctx expires.
func (h *WebhookHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
