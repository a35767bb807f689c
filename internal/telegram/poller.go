package telegram

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	pollTimeoutSecs = 30
	pollBaseDelay   = time.Second
	pollMaxDelay    = 15 * time.Second
	pollIdleDelay   = 200 * time.Millisecond
)

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

// RetryDelay picks the wait before the next getUpdates call after err.
// Telegram 429 replies carry retry_after; the result is clamped to [1s, 15s].
func RetryDelay(err error) time.Duration {
	d := pollBaseDelay
	var tgErr *tgbotapi.Error
	var netErr net.Error
	switch {
	case errors.As(err, &tgErr) && tgErr.RetryAfter > 0:
		d = time.Duration(tgErr.RetryAfter) * time.Second
	case strings.Contains(strings.ToLower(err.Error()), "too many requests"):
		d = 3 * time.Second
		if m := reRetryAfter.FindStringSubmatch(err.Error()); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				d = time.Duration(n) * time.Second
			}
		}
	case errors.As(err, &netErr) && netErr.Timeout():
		d = 2 * time.Second
	}
	return min(max(d, pollBaseDelay), pollMaxDelay)
}

// Poll long-polls getUpdates and handles updates sequentially until ctx is
// cancelled. Transport and API errors never stop the loop.
func (b *Bot) Poll(ctx context.Context) {
	log := logrus.WithField("component", "telegram.poll")
	// A webhook left over from a previous deployment blocks getUpdates.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warnf("delete webhook: %v", err)
	}

	offset := 0
	for {
		if ctx.Err() != nil {
			log.Info("polling stopped")
			return
		}

		updates, err := b.getUpdates(offset)
		if err != nil {
			d := RetryDelay(err)
			log.Warnf("polling error: %v; retry in %v", err, d)
			if !sleepCtx(ctx, d) {
				return
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			b.HandleUpdate(ctx, upd)
		}
		if len(updates) == 0 && !sleepCtx(ctx, pollIdleDelay) {
			return
		}
	}
}

func (b *Bot) getUpdates(offset int) ([]Update, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", offset)
	params.AddNonZero("timeout", pollTimeoutSecs)
	resp, err := b.api.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, err
	}
	return DecodeUpdates(resp.Result)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
