package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"  info  ", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoggerAttachesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentStorage,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("Saved record", FieldTransactionID, "tx-1")

	out := buf.String()
	if !strings.Contains(out, "component=storage") {
		t.Errorf("missing component attribute: %s", out)
	}
	if !strings.Contains(out, "transaction_id=tx-1") {
		t.Errorf("missing transaction attribute: %s", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	sub := logger.WithComponent(ComponentAuth)
	if sub.Component() != ComponentAuth {
		t.Errorf("Component() = %q, want %q", sub.Component(), ComponentAuth)
	}

	sub.Warn("Throttled")
	if !strings.Contains(buf.String(), "component=auth") {
		t.Errorf("missing overridden component: %s", buf.String())
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithUser("user-1").
		WithTransaction("tx-1", "Milk sales", 5000, "income", "Other").
		WithOperation(OpCreate)

	if fields[FieldUserID] != "user-1" {
		t.Errorf("user field = %v", fields[FieldUserID])
	}
	if fields[FieldAmount] != int64(5000) {
		t.Errorf("amount field = %v", fields[FieldAmount])
	}
	if fields[FieldOperation] != OpCreate {
		t.Errorf("operation field = %v", fields[FieldOperation])
	}

	slice := fields.ToSlice()
	if len(slice) != len(fields)*2 {
		t.Errorf("ToSlice() length = %d, want %d", len(slice), len(fields)*2)
	}
}
