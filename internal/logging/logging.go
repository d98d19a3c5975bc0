package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"stealthspanner/internal/paths"
)

// Setup configures the global logger: human-readable text to stderr plus a
// rotating log file under the cache directory. Returns the log file path.
func Setup(level string) (string, error) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Invalid log level '%s', using 'info'", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	cacheDir, err := paths.CacheDir()
	if err != nil {
		// Fall back to stderr-only logging.
		return "", err
	}
	logDir := filepath.Join(cacheDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", err
	}

	logPath := filepath.Join(logDir, "stealthspanner.log")
	rotating := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    20, // MB per file
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotating))

	return logPath, nil
}
