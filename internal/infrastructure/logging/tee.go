package logging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andrescamacho/colony-go/internal/application/common"
)

// TeeLogger fans every entry out to several loggers
type TeeLogger struct {
	loggers []common.Logger
}

func NewTeeLogger(loggers ...common.Logger) *TeeLogger {
	return &TeeLogger{loggers: loggers}
}

func (t *TeeLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range t.loggers {
		l.Log(level, message, metadata)
	}
}

// LogSink persists log entries
type LogSink interface {
	Log(ctx context.Context, tick uint64, scope, level, message string, metadata map[string]interface{}) error
}

// RepositoryLogger writes entries to a LogSink. Failures are reported on errOut.
type RepositoryLogger struct {
	sink   LogSink
	scope  string
	errOut io.Writer
}

func NewRepositoryLogger(sink LogSink, scope string, errOut io.Writer) *RepositoryLogger {
	return &RepositoryLogger{sink: sink, scope: scope, errOut: errOut}
}

func (r *RepositoryLogger) Log(level, message string, metadata map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tick, _ := metadata["tick"].(uint64)
	extra := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		if k != "operation" && k != "mission" && k != "tick" {
			extra[k] = v
		}
	}

	if err := r.sink.Log(ctx, tick, ScopeOf(metadata, r.scope), level, message, extra); err != nil && r.errOut != nil {
		fmt.Fprintf(r.errOut, "[%s] [%s] ERROR: failed to persist log: %v\n", time.Now().Format(time.RFC3339), r.scope, err)
	}
}
