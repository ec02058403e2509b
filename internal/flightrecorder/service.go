// Package flightrecorder captures execution traces around slow requests so
// that the cause can be inspected after the fact.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"
)

const (
	// minAge is the minimum age of trace events to keep in the buffer.
	minAge = 2 * time.Minute

	// maxBytes is the maximum size of the trace buffer.
	maxBytes = 32 * 1024 * 1024

	// cooldown is the minimum time between captures, so a burst of slow
	// requests does not fill the disk with near-identical traces.
	cooldown = 15 * time.Minute
)

// Service owns a running flight recorder and writes capture files into the
// traces directory.
type Service struct {
	logger          *slog.Logger
	recorder        *trace.FlightRecorder
	tracesDirectory string
	lastCapture     atomic.Int64
}

// New creates the traces directory, starts the recorder and returns the
// service. The recorder is process-global; call Stop on shutdown so it can
// be started again in the same process.
func New(logger *slog.Logger, tracesDirectory string) (*Service, error) {
	if tracesDirectory == "" {
		return nil, fmt.Errorf("traces directory is required")
	}
	if err := os.MkdirAll(tracesDirectory, 0o750); err != nil {
		return nil, fmt.Errorf("create traces directory: %w", err)
	}

	recorder := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   minAge,
		MaxBytes: maxBytes,
	})
	if err := recorder.Start(); err != nil {
		return nil, fmt.Errorf("start flight recorder: %w", err)
	}

	return &Service{
		logger:          logger,
		recorder:        recorder,
		tracesDirectory: tracesDirectory,
	}, nil
}

// Capture writes the current trace buffer to a file. Captures inside the
// cooldown window are silently skipped.
func (s *Service) Capture(ctx context.Context, reason string) error {
	now := time.Now().Unix()
	last := s.lastCapture.Load()
	if last > 0 && time.Duration(now-last)*time.Second < cooldown {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", time.Unix(last, 0)))
		return nil
	}
	if !s.lastCapture.CompareAndSwap(last, now) {
		// Another goroutine won the capture.
		return nil
	}

	timestamp := time.Unix(now, 0).UTC().Format("20060102-150405")
	fPath := filepath.Join(s.tracesDirectory, fmt.Sprintf("capture-%s.trace", timestamp))

	file, err := os.Create(fPath)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	bytesWritten, err := s.recorder.WriteTo(file)
	if err != nil {
		return fmt.Errorf("write trace: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace",
		slog.String("reason", reason),
		slog.String("file", fPath),
		slog.Int64("bytes", bytesWritten))
	return nil
}

// Stop ends recording, allowing a later New to start the process-global
// recorder again.
func (s *Service) Stop() {
	s.recorder.Stop()
}
