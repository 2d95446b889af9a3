package webex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rodrwan/webex-relay/internal/model"
)

// Client is a thin adapter over the Webex REST API. It holds no state
// beyond the bot credential.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type listWebhooksResponse struct {
	Items []model.Webhook `json:"items"`
}

type createWebhookRequest struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
}

// GetMessage fetches the full message for a webhook notification id.
func (c *Client) GetMessage(ctx context.Context, id string) (model.Message, error) {
	var msg model.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+id, nil, &msg); err != nil {
		return model.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}

// SendMessage posts text into a room.
func (c *Client) SendMessage(ctx context.Context, roomID, text string) error {
	body := sendMessageRequest{RoomID: roomID, Text: text}
	if err := c.do(ctx, http.MethodPost, "/messages", body, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// ListWebhooks returns every webhook registered for the bot.
func (c *Client) ListWebhooks(ctx context.Context) ([]model.Webhook, error) {
	var out listWebhooksResponse
	if err := c.do(ctx, http.MethodGet, "/webhooks", nil, &out); err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return out.Items, nil
}

// DeleteWebhook removes one webhook by id.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/webhooks/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// CreateWebhook registers a messages-created webhook pointing at
// targetURL.
func (c *Client) CreateWebhook(ctx context.Context, name, targetURL string) (model.Webhook, error) {
	body := createWebhookRequest{
		Name:      name,
		TargetURL: targetURL,
		Resource:  "messages",
		Event:     "created",
	}
	var wh model.Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", body, &wh); err != nil {
		return model.Webhook{}, fmt.Errorf("create webhook: %w", err)
	}
	return wh, nil
}

// DownloadFile fetches attachment bytes with the bot credential. The
// returned filename comes from Content-Disposition and may be empty.
func (c *Client) DownloadFile(ctx context.Context, fileURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("download file failed with %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file body: %w", err)
	}
	return data, dispositionFilename(resp.Header.Get("Content-Disposition")), nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.token == "" {
		return fmt.Errorf("missing webex token")
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webex api %s %s failed with %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
