package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/colony-go/internal/application/common"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

var levelRank = map[string]int{
	common.LevelDebug:   0,
	common.LevelInfo:    1,
	common.LevelWarning: 2,
	common.LevelError:   3,
}

// ParseLevel maps a config level (debug, info, warning, error) to a logger level
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return common.LevelDebug
	case "warn", "warning":
		return common.LevelWarning
	case "error":
		return common.LevelError
	default:
		return common.LevelInfo
	}
}

// ConsoleLogger writes one line per entry:
//
//	[2025-01-01T00:00:00Z] [alpha.upgrade] INFO: message key=value
type ConsoleLogger struct {
	mu        sync.Mutex
	out       io.Writer
	scope     string
	threshold int
	clock     shared.Clock
}

// NewConsoleLogger creates a logger writing entries at or above level.
// scope is used when an entry carries no operation/mission metadata.
func NewConsoleLogger(out io.Writer, scope, level string, clock shared.Clock) *ConsoleLogger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ConsoleLogger{out: out, scope: scope, threshold: levelRank[ParseLevel(level)], clock: clock}
}

func (l *ConsoleLogger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank[common.LevelInfo]
	}
	if rank < l.threshold {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s: %s", l.clock.Now().Format(time.RFC3339), ScopeOf(metadata, l.scope), level, message)
	for _, key := range sortedKeys(metadata) {
		if key == "operation" || key == "mission" {
			continue
		}
		fmt.Fprintf(&b, " %s=%v", key, metadata[key])
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// ScopeOf returns "<operation>.<mission>" from metadata, or fallback
func ScopeOf(metadata map[string]interface{}, fallback string) string {
	op, _ := metadata["operation"].(string)
	m, _ := metadata["mission"].(string)
	switch {
	case op != "" && m != "":
		return op + "." + m
	case op != "":
		return op
	default:
		return fallback
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewFromConfig builds the console logger described by cfg. The returned
// closer releases the log file, if any.
func NewFromConfig(cfg config.LoggingConfig, scope string) (*ConsoleLogger, io.Closer, error) {
	switch cfg.Output {
	case "stderr":
		return NewConsoleLogger(os.Stderr, scope, cfg.Level, nil), nopCloser{}, nil
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return NewConsoleLogger(f, scope, cfg.Level, nil), f, nil
	default:
		return NewConsoleLogger(os.Stdout, scope, cfg.Level, nil), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
