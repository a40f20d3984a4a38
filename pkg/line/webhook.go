package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

const SignatureHeader = "X-Line-Signature"

const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
	SourceTypeUser   = "user"
	SourceTypeGroup  = "group"
	SourceTypeRoom   = "room"
)

// WebhookPayload is the body LINE posts to the webhook endpoint.
type WebhookPayload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string   `json:"type"`
	ReplyToken string   `json:"replyToken"`
	Timestamp  int64    `json:"timestamp"`
	Source     Source   `json:"source"`
	Message    *Message `json:"message,omitempty"`
}

type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TextMessage returns the text of a text-message event.
func (e Event) TextMessage() (string, bool) {
	if e.Type != EventTypeMessage || e.Message == nil || e.Message.Type != MessageTypeText {
		return "", false
	}
	return e.Message.Text, true
}

// SenderID is the user who sent the event, regardless of the chat it was sent in.
func (s Source) SenderID() string {
	return strings.TrimSpace(s.UserID)
}

// VerifySignature checks the base64 HMAC-SHA256 of body under the channel secret.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature LINE would send for body. Used by tests and local tooling.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
