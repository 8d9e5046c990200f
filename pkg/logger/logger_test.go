package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: zerolog.New(buf)}
}

func TestWithFieldsAttached(t *testing.T) {
	tests := []struct {
		name  string
		with  func(l *Logger) *Logger
		field string
		want  string
	}{
		{"component", func(l *Logger) *Logger { return l.WithComponent("gateway") }, "component", "gateway"},
		{"request id", func(l *Logger) *Logger { return l.WithRequestID("req-1") }, "request_id", "req-1"},
		{"user", func(l *Logger) *Logger { return l.WithUser("user_bob") }, "user_id", "user_bob"},
		{"platform", func(l *Logger) *Logger { return l.WithPlatform("telegram") }, "platform", "telegram"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.with(newBufferLogger(&buf)).Info().Msg("hello")

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line: %v", err)
			}
			if got := entry[tt.field]; got != tt.want {
				t.Errorf("%s = %v, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestWithUserAndPlatformCompose(t *testing.T) {
	var buf bytes.Buffer
	newBufferLogger(&buf).WithUser("user_bob").WithPlatform("web").Info().Msg("message received")

	line := buf.String()
	for _, want := range []string{`"user_id":"user_bob"`, `"platform":"web"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Errorf("parseLevel = %s, want info", got)
	}
	if got := parseLevel("error"); got != zerolog.ErrorLevel {
		t.Errorf("parseLevel = %s, want error", got)
	}
}
