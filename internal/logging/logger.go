package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mikey/nzbget-notify/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes a logger based on configuration
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := cfg.GetLogging()
	return New(ParseLevel(lc.Level), lc.Format, zapcore.Lock(os.Stdout))
}

// New builds a logger writing to w. The "nzbget" format emits the line
// prefixes NZBGet understands ("[INFO] message"); "json" emits production
// JSON for standalone runs.
func New(level zapcore.Level, format string, w zapcore.WriteSyncer) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case "", "nzbget", "console":
		encoder = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			LevelKey:         "level",
			EncodeLevel:      NZBGetLevelEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		})
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("failed to initialize logger: unknown format %q", format)
	}

	return zap.New(zapcore.NewCore(encoder, w, level)), nil
}

// NZBGetLevelEncoder renders levels as NZBGet message kinds
func NZBGetLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString("[DETAIL]")
	case zapcore.InfoLevel:
		enc.AppendString("[INFO]")
	case zapcore.WarnLevel:
		enc.AppendString("[WARNING]")
	default:
		enc.AppendString("[ERROR]")
	}
}

// ParseLevel maps a level name to a zap level. NZBGet's "detail" is debug.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "detail", "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}
