package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. An unknown level falls back
// to info and is returned as an error so the caller can report it.
func Setup(level, format string) error {
	return setup(logrus.StandardLogger(), os.Stdout, level, format)
}

func setup(l *logrus.Logger, out io.Writer, level, format string) error {
	l.SetOutput(out)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.SetLevel(logrus.InfoLevel)
		return err
	}
	l.SetLevel(lvl)
	return nil
}
