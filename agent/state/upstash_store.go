package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstash wraps failures reported by the Upstash REST endpoint.
var ErrUpstash = errors.New("upstash redis")

const (
	defaultOwnerKeyPrefix = "schedbot:state:"
	defaultDialogueTTL    = 30 * time.Minute
	maxUpstashReplyBytes  = 64 << 10
)

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL"`
	Token   string        `envconfig:"TOKEN"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"10s"`
	TTL     time.Duration `envconfig:"TTL" default:"30m"`
}

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *UpstashRedisStore) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

// WithTTL sets how long an unfinished dialogue survives without a reply.
// Zero keeps it until the owner finishes or cancels.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashRedisStore keeps one Redis string per owner, "<prefix><ownerID>",
// holding the JSON state of a dialogue in progress. Idle owners have no key:
// saving Idle deletes it, and a missing key loads as ErrStateNotFound. Keys
// carry the dialogue TTL, so an abandoned selection or edit expires back to Idle.
type UpstashRedisStore struct {
	endpoint   string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if endpoint == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid upstash redis url: %w", err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultDialogueTTL
	}

	s := &UpstashRedisStore{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultOwnerKeyPrefix,
		ttl:        ttl,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return s, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, ownerID string) (*ConversationState, error) {
	key, err := s.ownerKey(ownerID)
	if err != nil {
		return nil, err
	}

	var payload *string
	if err := s.command(ctx, &payload, "GET", key); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrStateNotFound
	}

	var st ConversationState
	if err := json.Unmarshal([]byte(*payload), &st); err != nil {
		return nil, fmt.Errorf("unmarshal conversation state of %s: %w", key, err)
	}
	st.Normalize()
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation state loaded from store: %w", err)
	}
	return &st, nil
}

func (s *UpstashRedisStore) Save(ctx context.Context, st *ConversationState) error {
	if st == nil {
		return ErrNilConversationState
	}
	key, err := s.ownerKey(st.OwnerID)
	if err != nil {
		return err
	}

	st.Normalize()
	if st.Step == StepIdle {
		return s.command(ctx, nil, "DEL", key)
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("refusing to save conversation state: %w", err)
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	st.UpdatedAt = st.UpdatedAt.UTC()

	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	args := []any{"SET", key, string(payload)}
	if s.ttl > 0 {
		args = append(args, "EX", ttlSeconds(s.ttl))
	}
	return s.command(ctx, nil, args...)
}

func (s *UpstashRedisStore) Delete(ctx context.Context, ownerID string) error {
	key, err := s.ownerKey(ownerID)
	if err != nil {
		return err
	}
	return s.command(ctx, nil, "DEL", key)
}

func (s *UpstashRedisStore) ownerKey(ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", ErrInvalidSession
	}
	prefix := s.keyPrefix
	if prefix == "" {
		prefix = defaultOwnerKeyPrefix
	}
	return prefix + ownerID, nil
}

// command runs one Redis command through the REST endpoint and decodes its
// result into out when out is non-nil.
func (s *UpstashRedisStore) command(ctx context.Context, out any, args ...any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstash, args[0], err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstashReplyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s reply: %v", ErrUpstash, args[0], err)
	}

	var reply struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	// Upstash reports command errors as {"error": ...} with a non-2xx status.
	if jsonErr := json.Unmarshal(raw, &reply); jsonErr == nil && reply.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrUpstash, args[0], reply.Error)
	} else if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s: http status %d", ErrUpstash, args[0], resp.StatusCode)
	} else if jsonErr != nil {
		return fmt.Errorf("%w: decode %s reply: %v", ErrUpstash, args[0], jsonErr)
	}

	if out == nil || len(reply.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", args[0], err)
	}
	return nil
}

func ttlSeconds(ttl time.Duration) int64 {
	return max(1, int64(math.Ceil(ttl.Seconds())))
}
