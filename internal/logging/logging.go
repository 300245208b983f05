// Package logging provides the process-wide structured logger.
//
// Output always goes to stderr: stdout is reserved for the MCP
// line-delimited JSON wire protocol, and a stray log line on stdout
// would corrupt the transport.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global sugared logger. It is initialized by Init and is
// safe to use from any goroutine once set.
var Logger *zap.SugaredLogger

func init() {
	// A usable default before Init runs, so early startup code (flag
	// parsing, config load failures) can still log.
	l, _ := zap.NewProduction()
	Logger = l.Sugar()
}

// Config controls logger construction.
type Config struct {
	Debug  bool
	Format string // "json" or "console"
}

// Init builds the global logger. Call once at startup after config is
// loaded.
func Init(cfg Config) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	built, err := zapCfg.Build()
	if err != nil {
		return err
	}
	Logger = built.Sugar()
	return nil
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func Info(msg string, kv ...interface{})  { Logger.Infow(msg, kv...) }
func Debug(msg string, kv ...interface{}) { Logger.Debugw(msg, kv...) }
func Warn(msg string, kv ...interface{})  { Logger.Warnw(msg, kv...) }
func Error(msg string, kv ...interface{}) { Logger.Errorw(msg, kv...) }

// WithError returns a child logger carrying the error field, in the
// shape callers chain before a single log call.
func WithError(err error) *zap.SugaredLogger {
	return Logger.With("error", err)
}
