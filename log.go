package libtrace

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the narration sink every pipeline stage writes through instead
// of reaching for a package-level logger. A one-method interface keeps
// production and test wiring interchangeable.
type Logger interface {
	Log(format string, args ...any)
}

// logrusLogger adapts a *logrus.Logger to Logger. logrus already guards
// each Logf call with its own mutex, so one call here is one serialized
// line — no extra locking needed on top.
type logrusLogger struct {
	l *logrus.Logger
}

// NewLogger returns the production Logger, backed by logrus writing
// leveled, timestamped lines to its default output.
func NewLogger() Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Log(format string, args ...any) {
	g.l.Infof(format, args...)
}

// recordingLogger captures every line for test assertions. Safe for
// concurrent use since the Work Scheduler may fan narration in from
// multiple worker goroutines at once.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{}
}

func (r *recordingLogger) Log(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
