// Package logging builds the shared logrus.FieldLogger threaded through the
// kernel, supervisor, timer, and API packages, mirroring the way
// lxd/daemon.go constructs one logger at startup and hands it down to every
// subsystem rather than letting each reach for the global logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures the process-wide logger.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", "error").
	// Defaults to "info" if empty or unparseable.
	Level string

	// JSON selects structured JSON output instead of logrus's default
	// text formatter. The supervisor logs at Info/Warn and the debug HTTP
	// API at Debug; JSON output is meant for when hubrissim serve runs
	// behind a log collector rather than a terminal.
	JSON bool
}

// New builds a logrus.FieldLogger per opts, writing to stderr so stdout stays
// free for `hubrissim run`'s trace output.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stderr

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
