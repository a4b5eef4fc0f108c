// Package timer models the external timer-deadline collaborator: only how
// a deadline posts a notification is this package's concern, never how the
// deadline itself is computed or armed. It never touches the task table
// directly; it only calls Kernel.Post, the same narrow seam any
// notification source — interrupt or timer — goes through.
package timer

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Poster is the narrow seam timer needs from *kernel.Kernel.
type Poster interface {
	Post(target uint16, bits uint32)
}

// Deadline binds one cron schedule to one (task, bits) notification post.
type Deadline struct {
	Schedule string
	Task     uint16
	Bits     uint32
}

// Timer drives a set of Deadlines against a Poster on their cron schedules.
type Timer struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// New builds a Timer. log may be nil, in which case output is discarded by
// using the standard logger at its default level.
func New(log logrus.FieldLogger) *Timer {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Timer{cron: cron.New(), log: log}
}

// Add registers a deadline against poster. Returns an error if the cron
// expression cannot be parsed.
func (t *Timer) Add(d Deadline, poster Poster) error {
	_, err := t.cron.AddFunc(d.Schedule, func() {
		t.log.WithFields(logrus.Fields{"task": d.Task, "bits": d.Bits}).Debug("timer deadline fired, posting notification")
		poster.Post(d.Task, d.Bits)
	})

	return err
}

// Start begins firing scheduled deadlines in the background.
func (t *Timer) Start() { t.cron.Start() }

// Stop halts the scheduler and waits for any in-flight job to finish.
func (t *Timer) Stop() { <-t.cron.Stop().Done() }
