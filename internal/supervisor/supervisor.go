// Package supervisor stands in for the external fault-recovery task: the
// IPC core never calls into this package; this package calls into the
// kernel, the same one-directional relationship a real supervisor has with
// the tasks it restarts.
package supervisor

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Guiguiprim/hubris/internal/kernel"
)

// Supervisor restarts tasks on a *kernel.Kernel and logs each restart, the
// same role lxd's daemon plays logging lifecycle transitions of managed
// instances.
type Supervisor struct {
	k   *kernel.Kernel
	log logrus.FieldLogger
}

// New builds a Supervisor over k. log may be nil, in which case
// logrus.StandardLogger() is used.
func New(k *kernel.Kernel, log logrus.FieldLogger) *Supervisor {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Supervisor{k: k, log: log}
}

// Restart re-initializes task index, bumping its generation and
// propagating dead codes to every peer that referenced its old identity.
func (s *Supervisor) Restart(index uint16) (uint8, error) {
	newGen, err := s.k.Restart(index)
	if err != nil {
		return 0, fmt.Errorf("supervisor: restart task %d: %w", index, err)
	}

	s.log.WithFields(logrus.Fields{
		"task":       index,
		"generation": newGen,
	}).Info("task restarted")

	return newGen, nil
}

// timeoutCode is the response code delivered to a task whose SEND was cut
// short by ForceUnblock (a cut-short RECV gets kernel.ErrForciblyUnblocked
// instead), analogous to a dead code but distinguishing
// "cancelled by supervisor" from "peer restarted" for a caller that cares.
const timeoutCode = 0xFFFFFE00

// ForceUnblock is the supervisory mechanism an application uses to
// implement a SEND timeout: the named task is pulled out of whatever it is
// blocked in, without touching any other task's state. A subsequent REPLY
// aimed at it silently no-ops, indistinguishable to the replier from the
// peer having restarted.
func (s *Supervisor) ForceUnblock(index uint16) error {
	if err := s.k.ForceUnblock(index, timeoutCode); err != nil {
		return fmt.Errorf("supervisor: force-unblock task %d: %w", index, err)
	}

	s.log.WithField("task", index).Warn("task forcibly unblocked (timeout)")

	return nil
}
