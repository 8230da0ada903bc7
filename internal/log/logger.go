package log

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config log config
type Config struct {
	LogDir     string
	LogLevel   string
	AutoClear  bool
	ClearHours int
}

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

// InitLogger init logger. With an empty LogDir the logger keeps writing
// to stderr; otherwise it writes hourly rotated files under LogDir.
func InitLogger(config *Config) {
	if config.LogDir != "" {
		logDir, err := filepath.Abs(config.LogDir)
		if err != nil {
			panic(err)
		}

		err = os.MkdirAll(logDir, 0775)
		if err != nil {
			panic(err)
		}

		clearHours := 0
		if config.AutoClear {
			clearHours = config.ClearHours
		}
		logger = zerolog.New(NewRotateFileWriter(logDir, "sockinfo.log", clearHours))
	}

	lev := strings.ToLower(config.LogLevel)
	l, err := zerolog.ParseLevel(lev)
	if err != nil || lev == "" {
		l = zerolog.InfoLevel
	}
	logger = logger.Level(l)
}

// G returns the global logger.
func G() *zerolog.Logger {
	return &logger
}

func Error() *zerolog.Event {
	return logger.Error().Timestamp().Caller()
}

func Warn() *zerolog.Event {
	return logger.Warn().Timestamp().Caller()
}

func Info() *zerolog.Event {
	return logger.Info().Timestamp().Caller()
}

func Debug() *zerolog.Event {
	return logger.Debug().Timestamp().Caller()
}
