// Package flightrecorder keeps a rolling runtime trace in memory and dumps it to disk when something goes wrong,
// for example when a request times out.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime/trace"
	"sync"
	"time"

	"github.com/myrjola/fitcycle/internal/errors"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 * 1024 * 1024
	defaultCooldown = 30 * time.Minute
)

var ErrNoDirectory = errors.NewSentinel("traces directory is required")

// Config configures a Recorder. Zero durations and sizes use the defaults.
type Config struct {
	Directory string
	MinAge    time.Duration
	MaxBytes  uint64
	// Cooldown is the minimum time between two captures.
	Cooldown time.Duration
}

// Recorder wraps [trace.FlightRecorder]. Only one may run per process.
type Recorder struct {
	logger    *slog.Logger
	recorder  *trace.FlightRecorder
	directory string
	cooldown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	lastCapture time.Time
}

// New prepares a recorder writing into cfg.Directory, creating it when missing.
func New(logger *slog.Logger, cfg Config) (*Recorder, error) {
	if cfg.Directory == "" {
		return nil, ErrNoDirectory
	}
	if stat, err := os.Stat(cfg.Directory); err != nil {
		if err = os.MkdirAll(cfg.Directory, 0o750); err != nil { //nolint:mnd // rwxr-x---
			return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.Directory))
		}
	} else if !stat.IsDir() {
		return nil, errors.Wrap(errors.New("not a directory"), "check traces directory",
			slog.String("dir", cfg.Directory))
	}
	if cfg.MinAge == 0 {
		cfg.MinAge = defaultMinAge
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = defaultCooldown
	}
	return &Recorder{
		logger:      logger,
		recorder:    trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: cfg.MinAge, MaxBytes: cfg.MaxBytes}),
		directory:   cfg.Directory,
		cooldown:    cfg.Cooldown,
		now:         time.Now,
		mu:          sync.Mutex{},
		lastCapture: time.Time{},
	}, nil
}

func (r *Recorder) Start(ctx context.Context) error {
	if err := r.recorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.directory), slog.Duration("cooldown", r.cooldown))
	return nil
}

func (r *Recorder) Stop(ctx context.Context) {
	r.recorder.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

var unsafeReason = regexp.MustCompile(`[^a-z0-9]+`)

// Capture writes the buffered trace to <reason>-<timestamp>.trace and returns the file path. Captures within the
// cooldown of the previous one are skipped and return false.
func (r *Recorder) Capture(ctx context.Context, reason string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastCapture.IsZero() && now.Sub(r.lastCapture) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", r.lastCapture))
		return "", false
	}
	r.lastCapture = now

	name := fmt.Sprintf("%s-%s.trace", unsafeReason.ReplaceAllString(reason, "-"), now.UTC().Format("20060102-150405"))
	path := filepath.Join(r.directory, name)
	if err := r.write(path); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace", errors.SlogError(err))
		return "", false
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace", slog.String("file", path), slog.String("reason", reason))
	return path, true
}

func (r *Recorder) write(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if _, err = r.recorder.WriteTo(f); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", path))
	}
	return nil
}
