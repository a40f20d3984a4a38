package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
)

// Not parallel: Init replaces the global logger.

func TestInitWithWriterJSON(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWithWriter(&buf, Config{Service: "test-svc"})

	log.Debug().Msg("hidden")
	log.Info().Str("owner_id", "U1").Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "visible" || entry["service"] != "test-svc" || entry["owner_id"] != "U1" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("entry has no caller: %v", entry)
	}
}

func TestInitWithWriterDebug(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWithWriter(&buf, Config{Debug: true})

	log.Debug().Msg("shown")
	if !bytes.Contains(buf.Bytes(), []byte(`"shown"`)) {
		t.Fatalf("debug entry missing: %q", buf.String())
	}
}
