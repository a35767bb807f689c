package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"scan1c/internal/domain"
	"scan1c/internal/service"
)

// API is the subset of *tgbotapi.BotAPI used by the bot.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Options configures a Bot.
type Options struct {
	// PublicURL is the deployment base URL; the web app lives at PublicURL/index.html.
	PublicURL string
	// MaxFileBytes rejects Telegram files above this size before download.
	MaxFileBytes int64
	HTTPClient   *http.Client
}

// Bot routes Telegram updates to the scan and submission services.
type Bot struct {
	api         API
	scans       service.ScanService
	submissions service.SubmissionService
	opts        Options
}

// NewBot creates a Bot.
func NewBot(api API, scans service.ScanService, submissions service.SubmissionService, opts Options) *Bot {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")
	return &Bot{api: api, scans: scans, submissions: submissions, opts: opts}
}

// WebAppURL returns the address of the review web app.
func (b *Bot) WebAppURL() string {
	return b.opts.PublicURL + "/index.html"
}

// SetWebhook registers url with Telegram and drops updates queued meanwhile.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("building webhook config: %w", err)
	}
	wh.DropPendingUpdates = true
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}
	return nil
}

// HandleUpdate processes a single update. Errors are reported to the chat
// and logged; nothing is returned to the caller.
func (b *Bot) HandleUpdate(ctx context.Context, upd Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	log := logrus.WithFields(logrus.Fields{
		"component": "telegram",
		"update_id": upd.UpdateID,
		"chat_id":   chatID,
	})

	switch {
	case upd.WebAppData != nil:
		b.handleWebAppData(ctx, log, chatID, upd.WebAppData)
	case msg.IsCommand():
		b.handleCommand(log, msg)
	case len(msg.Photo) > 0:
		// Telegram lists sizes ascending; the last one is the original.
		ph := msg.Photo[len(msg.Photo)-1]
		b.handleFile(ctx, log, chatID, ph.FileID, int64(ph.FileSize), "photo.jpg", "image/jpeg")
	case msg.Document != nil:
		doc := msg.Document
		b.handleFile(ctx, log, chatID, doc.FileID, int64(doc.FileSize), doc.FileName, doc.MimeType)
	default:
		b.reply(log, chatID, unsupportedText)
	}
}

func (b *Bot) handleCommand(log *logrus.Entry, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		out := tgbotapi.NewMessage(msg.Chat.ID, greetingText)
		out.ReplyMarkup = newWebAppKeyboard(scanButtonText, b.WebAppURL())
		if _, err := b.api.Send(out); err != nil {
			log.Errorf("send start keyboard: %v", err)
		}
	default:
		b.reply(log, msg.Chat.ID, unsupportedText)
	}
}

func (b *Bot) handleWebAppData(ctx context.Context, log *logrus.Entry, chatID int64, data *WebAppData) {
	var sub domain.Submission
	if err := json.Unmarshal([]byte(data.Data), &sub); err != nil {
		log.Warnf("invalid web app payload: %v", err)
		b.reply(log, chatID, badWebAppText)
		return
	}
	b.reply(log, chatID, submittingText)

	res, err := b.submissions.Submit(ctx, &sub)
	if err != nil || res == nil || !res.Success {
		b.reply(log, chatID, rejectedText(res, err))
		return
	}
	b.reply(log, chatID, submittedText(res))
}

func (b *Bot) handleFile(ctx context.Context, log *logrus.Entry, chatID int64, fileID string, size int64, name, mimeType string) {
	if b.opts.MaxFileBytes > 0 && size > b.opts.MaxFileBytes {
		b.reply(log, chatID, scanFailedText(domain.ErrFileTooLarge))
		return
	}
	b.reply(log, chatID, scanningText)

	data, err := b.download(ctx, fileID)
	if err != nil {
		log.Errorf("download file %s: %v", fileID, err)
		b.reply(log, chatID, downloadFailText)
		return
	}
	if name == "" {
		name = path.Base(fileID)
	}

	out, err := b.scans.Scan(ctx, service.ScanInput{
		Source:       domain.ScanSourceTelegram,
		FileName:     name,
		DeclaredType: mimeType,
		Data:         data,
	})
	if err != nil {
		log.Warnf("scan rejected: %v", err)
		b.reply(log, chatID, scanFailedText(err))
		return
	}
	b.reply(log, chatID, summaryText(out.Result))
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := b.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching file: status %d", resp.StatusCode)
	}
	return service.ReadUpload(resp.Body, b.opts.MaxFileBytes)
}

func (b *Bot) reply(log *logrus.Entry, chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Errorf("send message: %v", err)
	}
}
