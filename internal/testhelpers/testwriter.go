package testhelpers

import (
	"io"
	"strings"
	"testing"
)

// Writer implements io.Writer and forwards every write to t.Log so that logs show up only for failed tests.
type Writer struct {
	t        testing.TB
	testDone chan struct{}
}

// NewWriter creates a Writer bound to t. Pass it to NewLogger.
func NewWriter(t testing.TB) io.Writer {
	w := &Writer{
		t:        t,
		testDone: make(chan struct{}),
	}
	t.Cleanup(func() {
		close(w.testDone)
	})
	return w
}

// Write logs p without its trailing newline. Writing after the test has finished panics because it means
// a goroutine, typically a server, outlived the test.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.testDone:
		panic("testwriter: write after test completion, is the server shut down in t.Cleanup?")
	default:
	}
	if output := strings.TrimSuffix(string(p), "\n"); output != "" {
		w.t.Log(output)
	}
	return len(p), nil
}
