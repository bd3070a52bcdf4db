package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It is usable before Init is called.
var Logger = logrus.New()

// Init configures level, formatter and output. When file is set, entries are
// written both to stdout and to a size-rotated file.
func Init(level, format, file string) error {
	if level == "" {
		level = "info"
	}

	lvl, err := logrus.ParseLevel(level)

	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	Logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	var out io.Writer = os.Stdout

	if file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	Logger.SetOutput(out)

	return nil
}
