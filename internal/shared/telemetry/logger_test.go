package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("analyzer.retry", map[string]any{
		"attempt": 1,
		"error":   errors.New("http status 503"),
		"level":   "ignored",
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["msg"] != "analyzer.retry" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["error"] != "http status 503" {
		t.Fatalf("expected error to be stringified, got %v", payload["error"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}
