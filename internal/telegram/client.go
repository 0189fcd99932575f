// Package telegram отправляет сообщения через Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/vpn-dashboard/internal/config"
)

// Client: минимальный клиент Bot API для метода sendMessage.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// New создаёт клиента. Пустой токен допустим: Configured вернёт false.
func New(cfg config.Telegram, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		token:      cfg.BotToken,
	}
}

// Configured сообщает, задан ли токен бота.
func (c *Client) Configured() bool {
	return c.token != ""
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage отправляет HTML-сообщение в чат chatID.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	const op = "telegram.SendMessage"
	if !c.Configured() {
		return fmt.Errorf("%s: bot token is not configured", op)
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ошибка содержит URL с токеном.
		return fmt.Errorf("%s: request failed: %w", op, redact(err, c.token))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if !result.OK {
		return fmt.Errorf("%s: telegram error: %s", op, result.Description)
	}
	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "***"), err: err}
}
