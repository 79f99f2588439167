package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ivo-tech/cloudflare-ddns/internal/config"
)

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "2006-01-02 15:04:05"

// NewWriter formats events as "<timestamp> - <LEVEL> - <message>".
func NewWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: TimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: func(i interface{}) string {
			level, ok := i.(string)
			if !ok {
				level = "???"
			}
			return "- " + strings.ToUpper(level) + " -"
		},
	}
}

// SetupLogger writes to console and, when cfg.File is set, appends to that file as well.
// A log file that cannot be opened is reported on the console and otherwise ignored,
// so a read-only /var/log never stops an update.
// The returned function closes the file.
func SetupLogger(cfg *config.LoggingConfig, console io.Writer) (zerolog.Logger, func() error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	closer := func() error { return nil }
	writers := []io.Writer{NewWriter(console)}
	var fileErr error
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, NewWriter(f))
			closer = f.Close
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	if fileErr != nil {
		logger.Warn().Msgf("cannot open log file, logging to console only: %s", fileErr)
	}
	return logger, closer
}
