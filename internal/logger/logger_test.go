package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	id := NewRequestID()
	if len(id) != 8 {
		t.Fatalf("expected 8-char request id, got %q", id)
	}
	ctx := WithRequestID(context.Background(), id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("expected %q, got %q", id, got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestInitWritesToConfiguredOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Out: &buf})

	l := ForCampaign("abc123")
	l.Info().Msg("turn ended")
	out := buf.String()
	if !strings.Contains(out, "turn ended") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("expected campaign id in output, got %q", out)
	}
}
