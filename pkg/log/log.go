// Package log wraps zap with the process-wide logger used by datagen.
//
// The default logger writes debug and above to stdout. InitLogger builds a
// logger from Config, fanning out to the console and a lumberjack-rotated file,
// and ReplaceGlobals installs it.
package log

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gopkg.in/natefinch/lumberjack.v2"
)

var _globalL, _globalS atomic.Value

func init() {
	l := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	))
	_globalL.Store(l)
	_globalS.Store(l.Sugar())
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ParseLevel parses a level name; "trace" maps to debug
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.EqualFold(s, "trace") {
		s = "debug"
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errors.Wrapf(err, "parse log level %q", s)
	}
	return level, nil
}

// InitLogger builds a logger from cfg. With no sink enabled the logger
// discards everything.
func InitLogger(cfg Config, opts ...zap.Option) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var outputs []zapcore.WriteSyncer
	if cfg.Stdout {
		outputs = append(outputs, zapcore.Lock(os.Stdout))
	}
	if cfg.File.Filename != "" {
		lg, err := initFileLog(cfg.File)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, zapcore.AddSync(lg))
	}
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "console", "text":
		encoder = zapcore.NewConsoleEncoder(encoderConfig())
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig())
	default:
		return nil, errors.Newf("unknown log format %q", cfg.Format)
	}

	core := zapcore.NewCore(encoder, zap.CombineWriteSyncers(outputs...), zap.NewAtomicLevelAt(level))

	base := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		base = append(base, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	} else {
		base = append(base, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, append(base, opts...)...), nil
}

func initFileLog(cfg FileConfig) (*lumberjack.Logger, error) {
	if st, err := os.Stat(cfg.Filename); err == nil && st.IsDir() {
		return nil, errors.Newf("can't use directory %s as log file name", cfg.Filename)
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = defaultLogMaxSize
	}

	// use lumberjack to logrotate
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

// NewTestLogger returns a logger that writes through t.Log
func NewTestLogger(t zaptest.TestingT) *zap.Logger {
	return zaptest.NewLogger(t)
}

// L returns the global Logger. It's safe for concurrent use.
func L() *zap.Logger {
	return _globalL.Load().(*zap.Logger)
}

// S returns the global SugaredLogger
func S() *zap.SugaredLogger {
	return _globalS.Load().(*zap.SugaredLogger)
}

// ReplaceGlobals replaces the global Logger and SugaredLogger.
func ReplaceGlobals(logger *zap.Logger) {
	_globalL.Store(logger)
	_globalS.Store(logger.Sugar())
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}
