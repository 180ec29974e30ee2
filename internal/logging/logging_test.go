package logging

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/zoobzio/capitan"

	"github.com/xlate/xlate"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantErr   bool
	}{
		{name: "text_info", level: "info", format: "text", wantLevel: logrus.InfoLevel},
		{name: "json_debug", level: "debug", format: "json", wantLevel: logrus.DebugLevel},
		{name: "empty_format_is_text", level: "warn", format: "", wantLevel: logrus.WarnLevel},
		{name: "bad_level", level: "verbose", format: "text", wantErr: true},
		{name: "bad_format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("expected level %v, got %v", tt.wantLevel, logger.GetLevel())
			}
		})
	}

	t.Run("formatter_types", func(t *testing.T) {
		logger, err := New("info", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
			t.Errorf("expected JSONFormatter, got %T", logger.Formatter)
		}

		logger, err = New("info", "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
			t.Errorf("expected TextFormatter, got %T", logger.Formatter)
		}
	})
}

// waitForEntry polls the test hook until an entry with the given message
// arrives. Signal delivery is asynchronous.
func waitForEntry(t *testing.T, hook *test.Hook, message string) *logrus.Entry {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, entry := range hook.AllEntries() {
			if entry.Message == message {
				return entry
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for log entry %q", message)
	return nil
}

func TestBridgeConversionLifecycle(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	detach := Bridge(logger)
	defer detach()

	capitan.Emit(context.Background(), xlate.ConversionCompleted,
		xlate.RequestIDKey.Field("req-1"),
		xlate.SourceLanguageKey.Field("Python"),
		xlate.TargetLanguageKey.Field("Go"),
		xlate.DurationMsKey.Field(120),
	)

	entry := waitForEntry(t, hook, string(xlate.ConversionCompleted))
	if entry.Level != logrus.InfoLevel {
		t.Errorf("expected info level, got %v", entry.Level)
	}
	if entry.Data["request_id"] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", entry.Data["request_id"])
	}
	if entry.Data["source_language"] != "Python" {
		t.Errorf("expected source_language Python, got %v", entry.Data["source_language"])
	}
	if entry.Data["target_language"] != "Go" {
		t.Errorf("expected target_language Go, got %v", entry.Data["target_language"])
	}
	if entry.Data["duration_ms"] != 120 {
		t.Errorf("expected duration_ms 120, got %v", entry.Data["duration_ms"])
	}
}

func TestBridgeFailuresLogAtError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	detach := Bridge(logger)
	defer detach()

	capitan.Emit(context.Background(), xlate.ProviderCallFailed,
		xlate.ProviderKey.Field("openai"),
		xlate.HTTPStatusCodeKey.Field(429),
		xlate.ErrorKey.Field("rate limit exceeded"),
	)

	entry := waitForEntry(t, hook, string(xlate.ProviderCallFailed))
	if entry.Level != logrus.ErrorLevel {
		t.Errorf("expected error level, got %v", entry.Level)
	}
	if entry.Data["status_code"] != 429 {
		t.Errorf("expected status_code 429, got %v", entry.Data["status_code"])
	}
	if entry.Data["error"] != "rate limit exceeded" {
		t.Errorf("expected error field, got %v", entry.Data["error"])
	}
}

func TestBridgeProviderTrafficLogsAtDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	detach := Bridge(logger)
	defer detach()

	capitan.Emit(context.Background(), xlate.ProviderCallStarted,
		xlate.ProviderKey.Field("mock"),
		xlate.ModelKey.Field("mock-fixed"),
	)

	entry := waitForEntry(t, hook, string(xlate.ProviderCallStarted))
	if entry.Level != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", entry.Level)
	}
	if entry.Data["provider"] != "mock" {
		t.Errorf("expected provider mock, got %v", entry.Data["provider"])
	}
	if entry.Data["model"] != "mock-fixed" {
		t.Errorf("expected model mock-fixed, got %v", entry.Data["model"])
	}
}
