package observability

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger creates a logrus logger with the given level and format.
// Unknown levels fall back to info and unknown formats to text.
func NewLogger(level, format string, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(output)

	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}

// contextKey is the type for context keys
type contextKey string

// PassIDKey is the context key for the pass ID
const PassIDKey contextKey = "pass_id"

// WithPassID adds a pass ID to the context
func WithPassID(ctx context.Context, passID string) context.Context {
	return context.WithValue(ctx, PassIDKey, passID)
}

// GetPassID retrieves the pass ID from context
func GetPassID(ctx context.Context) string {
	if passID, ok := ctx.Value(PassIDKey).(string); ok {
		return passID
	}
	return ""
}

// FromContext returns a log entry carrying the pass ID and trace context found in ctx
func FromContext(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if passID := GetPassID(ctx); passID != "" {
		entry = entry.WithField("pass_id", passID)
	}
	return WithTraceContext(ctx, entry)
}
