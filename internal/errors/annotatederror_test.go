package errors_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/fitcycle/internal/errors"
	"github.com/myrjola/fitcycle/internal/testhelpers"
)

func TestAnnotatedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "sentinel",
			err:  errors.NewSentinel("no program"),
			want: "no program",
		},
		{
			name: "wrapped",
			err:  errors.Wrap(errors.NewSentinel("no program"), "complete day", slog.Int("day", 3)),
			want: "complete day: no program",
		},
		{
			name: "wrapped twice",
			err: errors.Wrap(
				errors.Wrap(errors.NewSentinel("no program"), "load program"),
				"complete day",
			),
			want: "complete day: load program: no program",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, "nothing happened"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsAndAs(t *testing.T) {
	root := errors.NewSentinel("day not found")
	wrapped := errors.Wrap(fmt.Errorf("lookup: %w", root), "skip day")

	if !errors.Is(wrapped, root) {
		t.Error("Is() = false, want true for wrapped sentinel")
	}
	if errors.Is(wrapped, errors.NewSentinel("day not found")) {
		t.Error("Is() = true, want false for a distinct sentinel with the same message")
	}

	custom := &customError{msg: "storage offline"}
	var target *customError
	if !errors.As(errors.Wrap(custom, "persist"), &target) {
		t.Fatal("As() = false, want true")
	}
	if target != custom {
		t.Errorf("As() target = %v, want %v", target, custom)
	}
}

func TestSlogError(t *testing.T) {
	err := errors.Wrap(errors.NewSentinel("root cause"), "persist program",
		slog.String("key", "fitness_program"), slog.Duration("duration", time.Second))
	var buf bytes.Buffer
	l := testhelpers.NewLogger(&buf)
	l.Info("test", errors.SlogError(err))
	logLine := buf.String()
	for _, content := range []string{
		"error.message=\"persist program: root cause\"",
		"error.annotations.key=fitness_program",
		"error.annotations.duration=1s",
		"annotatederror_test.go:",
	} {
		if !strings.Contains(logLine, content) {
			t.Errorf("expected log line %s to contain %s", logLine, content)
		}
	}
	if strings.Contains(logLine, "annotatederror.go:") {
		t.Error("expected the wrap location to point at the caller, not the errors package")
	}

	// None of these may panic.
	errors.SlogError(nil)
	errors.SlogError(errors.Join(nil, errors.NewSentinel("a"), errors.New("b")))
	errors.SlogError(fmt.Errorf("plain: %w", errors.NewSentinel("sentinel")))
}

func TestDecoratePanic(t *testing.T) {
	defer func() {
		err := errors.DecoratePanic(recover())
		if err == nil {
			t.Fatal("expected error")
		}
		if got, want := err.Error(), "panic: boom"; got != want {
			t.Errorf("err.Error(): got %q, want %q", got, want)
		}
		if got := errors.SlogError(err).String(); !strings.Contains(got, "annotatederror_test.go:") {
			t.Errorf("expected %q to point at this test file", got)
		}
	}()
	panic("boom")
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
