package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region modules
const (
	ModuleSession   = "[Session]"
	ModuleJournal   = "[Journal]"
	ModuleTransport = "[Transport]"
	ModuleCLI       = "[CLI]"
)
// #endregion modules

// #region config
// Config controls level and sinks for every logger built by this package.
type Config struct {
	Level          string // DEBUG | INFO | WARN | ERROR
	Path           string // file sink prefix; empty disables the file sink
	Console        bool
	ShowLine       bool
	RotationHours  int
	RotationSizeMB int
	MaxAgeDays     int
}

// DefaultConfig logs INFO to the console only.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		Console:        true,
		ShowLine:       true,
		RotationHours:  24,
		RotationSizeMB: 10,
		MaxAgeDays:     7,
	}
}

// ParseLevel maps a config level to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zap.DebugLevel, nil
	case "INFO", "":
		return zap.InfoLevel, nil
	case "WARN":
		return zap.WarnLevel, nil
	case "ERROR":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unknown log level %q", s)
}
// #endregion config

// #region factory
// NewSugaredLogger builds a named console-encoded logger.
func NewSugaredLogger(name string, cfg Config) (*zap.SugaredLogger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	enabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level
	})

	var syncers []zapcore.WriteSyncer
	if cfg.Console {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	if cfg.Path != "" {
		w, err := rotatelogs.New(
			cfg.Path+".%Y%m%d%H",
			rotatelogs.WithRotationTime(time.Duration(cfg.RotationHours)*time.Hour),
			rotatelogs.WithRotationSize(int64(cfg.RotationSizeMB)*1024*1024),
			rotatelogs.WithMaxAge(time.Duration(cfg.MaxAgeDays)*24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("rotating log %s: %w", cfg.Path, err)
		}
		syncers = append(syncers, zapcore.AddSync(w))
	}
	if len(syncers) == 0 {
		return zap.NewNop().Sugar(), nil
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:       "time",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "line",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
		},
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.NewMultiWriteSyncer(syncers...), enabler)

	var opts []zap.Option
	if cfg.ShowLine {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...).Named(name).Sugar(), nil
}
// #endregion factory

// #region registry
var (
	loggers   = make(map[string]*zap.SugaredLogger)
	loggersMu sync.Mutex
	current   = DefaultConfig()
)

// SetConfig replaces the config used by GetLogger and drops cached loggers.
func SetConfig(cfg Config) error {
	if _, err := ParseLevel(cfg.Level); err != nil {
		return err
	}
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
	current = cfg
	loggers = make(map[string]*zap.SugaredLogger)
	return nil
}

// GetLogger returns the cached logger for name, building it on first use. A
// broken file sink falls back to a console-only logger.
func GetLogger(name string) *zap.SugaredLogger {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[name]; ok {
		return l
	}
	l, err := NewSugaredLogger(name, current)
	if err != nil {
		fallback := current
		fallback.Path = ""
		fallback.Console = true
		l, _ = NewSugaredLogger(name, fallback)
		l.Warnf("file logging disabled: %v", err)
	}
	loggers[name] = l
	return l
}
// #endregion registry
