package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

var root = logrus.New()

func init() {
	root.SetOutput(io.Discard)
}

// Init routes logs to file at the given level. An empty file keeps logs
// discarded. The returned func closes the log file.
func Init(level, file string) (func(), error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	root.SetLevel(lvl)
	root.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	if file == "" {
		root.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	root.SetOutput(f)

	return func() {
		root.SetOutput(io.Discard)
		_ = f.Close()
	}, nil
}

// SetOutput redirects logs.
func SetOutput(w io.Writer) {
	root.SetOutput(w)
}

// Logger returns the root logger.
func Logger() *logrus.Logger {
	return root
}

// For returns a logger tagged with a component name.
func For(component string) *logrus.Entry {
	return root.WithField("component", component)
}
