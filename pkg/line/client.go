package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	replyPath = "/v2/bot/message/reply"

	// A reply token accepts at most five messages.
	maxReplyMessages = 5
)

var ErrEmptyReplyToken = errors.New("reply token is empty")

type Config struct {
	APIURL             string        `envconfig:"API_URL" default:"https://api.line.me"`
	ChannelAccessToken string        `split_words:"true" required:"true"`
	ChannelSecret      string        `split_words:"true" required:"true"`
	Timeout            time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL            string
	channelAccessToken string
	httpClient         *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.APIURL)
	if baseURL == "" {
		return nil, errors.New("line api url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		channelAccessToken: strings.TrimSpace(cfg.ChannelAccessToken),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// Reply sends texts as text messages bound to replyToken. Empty texts are
// skipped; if nothing remains no request is made.
func (c *Client) Reply(ctx context.Context, replyToken string, texts ...string) error {
	replyToken = strings.TrimSpace(replyToken)
	if replyToken == "" {
		return ErrEmptyReplyToken
	}

	messages := make([]textMessage, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		messages = append(messages, textMessage{Type: "text", Text: text})
	}
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > maxReplyMessages {
		return fmt.Errorf("line reply: %d messages exceeds limit %d", len(messages), maxReplyMessages)
	}

	body, err := json.Marshal(replyRequest{ReplyToken: replyToken, Messages: messages})
	if err != nil {
		return fmt.Errorf("line reply: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+replyPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("line reply: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelAccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line reply: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("line reply: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
