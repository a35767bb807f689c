package onec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"scan1c/internal/config"
	"scan1c/internal/domain"
)

// DebugNoURL is reported instead of calling 1C when no endpoint is configured.
const DebugNoURL = "1C URL not set"

// Client posts documents to the 1C HTTP service. It implements port.AccountingClient.
type Client struct {
	url      string
	user     string
	password string
	client   *http.Client
}

// NewClient creates a 1C client from config.
func NewClient(cfg *config.OneCConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:      strings.TrimSpace(cfg.URL),
		user:     cfg.User,
		password: cfg.Password,
		client:   &http.Client{Timeout: timeout},
	}
}

// SendDocument posts sub as JSON with basic auth. The 1C service's own
// verdict is returned as an AccountingResult; a Go error is returned only when
// the request could not be built. Transport failures and non-200 replies
// become Success=false results so callers can show the message to the user.
func (c *Client) SendDocument(ctx context.Context, sub *domain.Submission) (*domain.AccountingResult, error) {
	if c.url == "" {
		return &domain.AccountingResult{Success: true, Debug: DebugNoURL}, nil
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshaling document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.user != "" || c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	log := logrus.WithFields(logrus.Fields{
		"component":  "onec.SendDocument",
		"doc_number": sub.DocNumber,
		"items":      len(sub.Items),
	})

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("1C request failed: %v", err)
		return &domain.AccountingResult{Success: false, Error: err.Error()}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.AccountingResult{Success: false, Error: fmt.Sprintf("reading 1C response: %v", err)}, nil
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("1C rejected document")
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = resp.Status
		}
		return &domain.AccountingResult{Success: false, Error: msg}, nil
	}

	var result domain.AccountingResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return &domain.AccountingResult{Success: false, Error: fmt.Sprintf("invalid 1C response: %v", err)}, nil
	}
	log.WithField("success", result.Success).Info("1C replied")
	return &result, nil
}
