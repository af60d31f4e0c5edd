package perf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// sampleLog appends one line per sample to a plain-text file: the value in
// milliseconds, fixed 8-decimal formatting. The file opens lazily on first
// write and stays open for the tracker's lifetime. Writes are best-effort;
// failures are logged (throttled) and never surface to ingestion.
type sampleLog struct {
	path    string
	enabled func() bool
	logger  *zap.Logger
	warnCap *rate.Limiter

	file *os.File
}

func newSampleLog(path string, enabled func() bool, logger *zap.Logger) *sampleLog {
	return &sampleLog{
		path:    path,
		enabled: enabled,
		logger:  logger,
		warnCap: rate.NewLimiter(rate.Every(30*time.Second), 1),
	}
}

// write appends v. Called with the tracker's exclusive lock held, so the file
// handle needs no lock of its own.
func (l *sampleLog) write(v time.Duration) {
	if l.enabled != nil && !l.enabled() {
		return
	}
	if l.file == nil && !l.open() {
		return
	}
	if _, err := fmt.Fprintf(l.file, "%.8f\n", millis(v)); err != nil {
		l.warn("sample log write failed", err)
	}
}

func (l *sampleLog) open() bool {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			l.warn("sample log dir create failed", err)
			return false
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.warn("sample log open failed", err)
		return false
	}
	l.file = f
	return true
}

func (l *sampleLog) warn(msg string, err error) {
	if l.warnCap.Allow() {
		l.logger.Warn(msg, zap.String("path", l.path), zap.Error(err))
	}
}

func (l *sampleLog) close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
