package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var shared *zap.SugaredLogger

// Init builds the process-wide logger. level is a zap level name ("debug",
// "info", ...); LOG_LEVEL in the environment wins when set.
func Init(level string) {
	if shared != nil {
		return
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	lvl := zapcore.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		lvl,
	)

	shared = zap.New(core).Sugar()
}

// Logger returns the shared logger, initialising it at info level if needed.
func Logger() *zap.SugaredLogger {
	if shared == nil {
		Init("")
	}
	return shared
}

func Sync() {
	if shared != nil {
		_ = shared.Sync()
	}
}
