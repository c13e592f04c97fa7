package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// timings logs each stage of a conversion at debug level together with the
// time it took.
type timings struct {
	logger *log.Logger
	file   string
	last   time.Time
}

func startTimings(l *log.Logger, file string) *timings {
	return &timings{logger: l, file: file, last: time.Now()}
}

// stage logs that the named stage finished, e.g.
// `evaluated file=app.conl took=1.2ms format=conl`.
func (t *timings) stage(name string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"file", t.file, "took", now.Sub(t.last).Round(time.Microsecond)}, keyvals...)
	t.logger.Debug(name, kv...)
	t.last = now
}
