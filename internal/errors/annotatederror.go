// Package errors annotates errors with structured log attributes and the source location where they were
// wrapped so that a single log line tells where and why something failed.
//
// It re-exports the functions of the standard library errors package so that it can be used as a drop-in
// replacement.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
	New    = stderrors.New
)

type sentinel struct {
	msg string
}

func (s *sentinel) Error() string {
	return s.msg
}

// NewSentinel creates a comparable error value without a stack location. Use it for package level error
// variables that callers match with [Is].
func NewSentinel(msg string) error {
	return &sentinel{msg: msg}
}

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// Wrap annotates err with msg and attrs and remembers the caller location. Wrapping a nil error returns nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and Wrap.
	return &annotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    pcs[0],
	}
}

// DecoratePanic converts a recovered panic value into an error pointing at the line that panicked.
// It must be called from the deferred function that recovered.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	var pcs [32]uintptr
	n := runtime.Callers(2, pcs[:]) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	var pc uintptr
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic {
			pc = frame.PC
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	if err, ok := excp.(error); ok {
		return &annotatedError{msg: "panic", err: err, attrs: nil, pc: pc}
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", excp), err: nil, attrs: nil, pc: pc}
}

// SlogError renders err as an "error" group containing the message, every annotation found in the wrap chain
// and the innermost wrap location.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	var (
		annotations []any
		source      string
	)
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		ae, ok := e.(*annotatedError)
		if !ok {
			continue
		}
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.pc != 0 {
			source = formatSource(ae.pc)
		}
	}

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

func formatSource(pc uintptr) string {
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	function := frame.Function
	if i := strings.LastIndex(function, "/"); i >= 0 {
		function = function[i+1:]
	}
	return fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, function)
}
