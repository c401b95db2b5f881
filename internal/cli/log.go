package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Exported 10 inkblots (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports composer and export events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnComposeStart(_ context.Context, width, height int) {
	h.logger.Debug("Composing", "width", width, "height", height)
}

func (h *logHooks) OnComposeComplete(_ context.Context, shapes, padding, blur int, d time.Duration) {
	h.logger.Debug("Composed", "shapes", shapes, "padding", padding, "blur", blur, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnImageExported(_ context.Context, name string, size int) {
	h.logger.Debug("Encoded image", "name", name, "bytes", size)
}

func (h *logHooks) OnBatchComplete(_ context.Context, id string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("Batch stopped", "batch", id, "images", count, "err", err)
		return
	}
	h.logger.Debug("Batch complete", "batch", id, "images", count, "took", d.Round(time.Millisecond))
}
