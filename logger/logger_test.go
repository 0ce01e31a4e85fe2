package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "permission-gateway", buf)
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	l.Info("started", Fields("port", 8080))

	entry := decode(t, &buf)
	if entry["message"] != "started" {
		t.Errorf("expected message 'started', got %v", entry["message"])
	}
	if entry[FieldService] != "permission-gateway" {
		t.Errorf("expected service field, got %v", entry[FieldService])
	}
	if entry["port"] != float64(8080) {
		t.Errorf("expected port 8080, got %v", entry["port"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected level info, got %v", entry["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info and debug to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info level fallback, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info").WithComponent("gateway")
	l.Info("ready")

	entry := decode(t, &buf)
	if entry[FieldComponent] != "gateway" {
		t.Errorf("expected component 'gateway', got %v", entry[FieldComponent])
	}
	if l.service != "permission-gateway" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := jsonLogger(&buf, "info")

	if base.WithContext(context.Background()) != base {
		t.Error("expected the same logger for a context without correlation fields")
	}

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	ctx = ContextWithRequestID(ctx, "req-789")

	base.WithContext(ctx).Info("evaluated")
	entry := decode(t, &buf)
	if entry[FieldRequestID] != "req-789" {
		t.Errorf("expected request_id, got %v", entry[FieldRequestID])
	}
	if entry[FieldTraceID] != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected trace_id, got %v", entry[FieldTraceID])
	}
	if entry[FieldSpanID] != "00f067aa0ba902b7" {
		t.Errorf("expected span_id, got %v", entry[FieldSpanID])
	}
}

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
	ctx := ContextWithRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Errorf("expected 'abc', got %q", got)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info").
		WithFields(map[string]interface{}{FieldProfile: "server"}).
		WithError(errors.New("upstream down"))
	l.Error("load failed")

	entry := decode(t, &buf)
	if entry[FieldProfile] != "server" {
		t.Errorf("expected profile field, got %v", entry[FieldProfile])
	}
	if entry["error"] != "upstream down" {
		t.Errorf("expected error field, got %v", entry["error"])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: FormatConsole, NoColor: true}, "gw", &buf)
	l.Warn("denied", Fields(FieldPermission, "cancelCard"))

	out := buf.String()
	if !strings.Contains(out, "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", out)
	}
	if !strings.Contains(out, "permission:cancelCard") {
		t.Errorf("expected field rendering, got %q", out)
	}
	if strings.Contains(out, "service:") {
		t.Errorf("expected service field to be excluded from console output, got %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("nothing")
	l.WithComponent("x").Error("nothing")
}

func TestInitAndGlobal(t *testing.T) {
	cfg := Config{Format: FormatJSON, ServiceName: "init-test"}
	Init(&cfg)
	if cfg.Level != "info" || cfg.Output != "stdout" {
		t.Errorf("expected defaults applied, got %+v", cfg)
	}
	gl := GetGlobalLogger()
	if gl == nil || gl.service != "init-test" {
		t.Fatalf("expected global logger for init-test, got %+v", gl)
	}

	custom := Nop()
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	// These should not panic.
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")

	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != FormatConsole {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}

	cfg = Config{Level: "debug", Format: FormatJSON}
	cfg.ApplyDefaults()
	if cfg.Level != "debug" || cfg.Format != FormatJSON {
		t.Errorf("expected explicit values preserved, got %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"pretty", Config{Level: "debug", Format: "pretty", Output: "stderr"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestGet_CachesPerGlobal(t *testing.T) {
	var first, second bytes.Buffer
	SetGlobalLogger(jsonLogger(&first, "info"))
	t.Cleanup(func() { SetGlobalLogger(nil) })

	gw := Get("gateway")
	if Get("gateway") != gw {
		t.Error("expected the component logger to be cached")
	}
	gw.Info("cached")
	if !strings.Contains(first.String(), `"component":"gateway"`) {
		t.Errorf("expected the component field, got %s", first.String())
	}

	SetGlobalLogger(jsonLogger(&second, "info"))
	Get("gateway").Info("replaced")
	if !strings.Contains(second.String(), "replaced") || strings.Contains(first.String(), "replaced") {
		t.Error("expected Get to follow the new global logger")
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if len(f) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(f), f)
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("load", errors.New("boom"))
	if ef[FieldOperation] != "load" || ef[FieldError] != "boom" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("evaluate", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}
