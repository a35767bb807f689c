package telegram

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebAppData is the payload a Telegram Web App sends back via sendData.
type WebAppData struct {
	Data       string `json:"data"`
	ButtonText string `json:"button_text"`
}

// Update wraps tgbotapi.Update with the message fields the library does not
// decode (web_app_data).
type Update struct {
	tgbotapi.Update
	WebAppData *WebAppData
}

// DecodeUpdate parses one raw update as delivered by a webhook or getUpdates.
func DecodeUpdate(raw []byte) (Update, error) {
	var upd Update
	if err := json.Unmarshal(raw, &upd.Update); err != nil {
		return Update{}, fmt.Errorf("decoding update: %w", err)
	}

	var ext struct {
		Message *struct {
			WebAppData *WebAppData `json:"web_app_data"`
		} `json:"message"`
	}
	if err := json.Unmarshal(raw, &ext); err != nil {
		return Update{}, fmt.Errorf("decoding update: %w", err)
	}
	if ext.Message != nil {
		upd.WebAppData = ext.Message.WebAppData
	}
	return upd, nil
}

// DecodeUpdates parses the result array of a getUpdates call.
func DecodeUpdates(raw json.RawMessage) ([]Update, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}
	out := make([]Update, 0, len(items))
	for _, item := range items {
		upd, err := DecodeUpdate(item)
		if err != nil {
			return nil, err
		}
		out = append(out, upd)
	}
	return out, nil
}

type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

// webAppKeyboard is a reply keyboard carrying web_app buttons. It is passed
// as MessageConfig.ReplyMarkup and marshaled as-is.
type webAppKeyboard struct {
	Keyboard       [][]webAppButton `json:"keyboard"`
	ResizeKeyboard bool             `json:"resize_keyboard"`
}

func newWebAppKeyboard(text, url string) webAppKeyboard {
	return webAppKeyboard{
		Keyboard:       [][]webAppButton{{{Text: text, WebApp: webAppInfo{URL: url}}}},
		ResizeKeyboard: true,
	}
}
