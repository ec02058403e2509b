// Package errors wraps the standard library errors with annotations that
// carry [slog.Attr] context and the source location of the error site.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// annotatedError is an error with slog annotations and a captured call site.
type annotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	pc    uintptr
}

// NewSentinel creates a new sentinel error that can be annotated with Wrap.
func NewSentinel(msg string) error {
	return &annotatedError{
		msg:   msg,
		cause: nil,
		attrs: nil,
		pc:    callerPC(),
	}
}

// New is a drop-in replacement for [errors.New] that records the call site.
func New(msg string) error {
	return &annotatedError{
		msg:   msg,
		cause: nil,
		attrs: nil,
		pc:    callerPC(),
	}
}

// Wrap annotates err with a message and optional [slog.Attr] context.
//
// The returned error implements Unwrap so that [errors.Is] and [errors.As]
// see through the annotation.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:   msg,
		cause: err,
		attrs: attrs,
		pc:    callerPC(),
	}
}

// callerPC captures the program counter two frames up, i.e. the caller of the
// exported constructor.
func callerPC() uintptr {
	const skip = 3 // runtime.Callers, callerPC, exported constructor.
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	return pcs[0]
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// SlogError converts an error into a [slog.Attr] carrying the error message,
// the annotations collected from the whole error tree, and the source location
// of the outermost annotated error.
//
// The attr is safe to build from a nil error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	attrs := []slog.Attr{slog.String("message", err.Error())}

	if source := outermostSource(err); source != "" {
		attrs = append(attrs, slog.String("source", source))
	}

	if annotations := collectAnnotations(err); len(annotations) > 0 {
		args := make([]any, 0, len(annotations))
		for _, a := range annotations {
			args = append(args, a)
		}
		attrs = append(attrs, slog.Group("annotations", args...))
	}

	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	return slog.Group("error", args...)
}

// outermostSource resolves the call site of the first annotated error in the
// tree into a short file:line string.
func outermostSource(err error) string {
	var annotated *annotatedError
	if !errors.As(err, &annotated) || annotated.pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{annotated.pc}).Next()
	if frame.File == "" {
		return ""
	}
	file := frame.File
	if idx := strings.LastIndexByte(file, '/'); idx != -1 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, frame.Line)
}

// collectAnnotations gathers the slog attrs from every annotated error in the
// tree, outermost first.
func collectAnnotations(err error) []slog.Attr {
	var attrs []slog.Attr
	for err != nil {
		var annotated *annotatedError
		if !errors.As(err, &annotated) {
			break
		}
		attrs = append(attrs, annotated.attrs...)
		err = annotated.cause
	}
	return attrs
}
