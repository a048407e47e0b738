// Package logger owns the global zerolog logger. Development gets a colored
// console writer; every other environment writes one JSON object per line.
package logger

import (
	"io"
	"os"
	"time"

	"cowork/config"
	"cowork/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var output io.Writer = os.Stdout

// InitLogger installs the console logger at trace level. CLIs stop here.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

// Setup is InitLogger followed by Configure, for long running processes.
func Setup(cfg *config.Config) {
	InitLogger()
	Configure(cfg)
}

// Configure applies SERVER_LOG_LEVEL, falling back to trace when it does not parse.
func Configure(cfg *config.Config) {
	level := zerolog.TraceLevel
	if parsed, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	zerolog.SetGlobalLevel(level)

	switch cfg.Server.Env {
	case constant.Empty, constant.ServerEnvDevelopment:
		return
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("env", cfg.Server.Env).
		Logger()

	log.Debug().Stringer("level", level).Msg("structured logging enabled")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
