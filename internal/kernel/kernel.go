package kernel

import (
	"github.com/sirupsen/logrus"
)

// Metrics is the narrow observability seam the rendezvous engine calls
// into. internal/metrics implements it over prometheus/client_golang; tests
// use the no-op default.
type Metrics interface {
	SyscallObserved(name string)
	RendezvousCompleted()
	DeadCodeDelivered()
	NotificationCoalesced()
}

type noopMetrics struct{}

func (noopMetrics) SyscallObserved(string) {}
func (noopMetrics) RendezvousCompleted()   {}
func (noopMetrics) DeadCodeDelivered()     {}
func (noopMetrics) NotificationCoalesced() {}

// Kernel owns the Task Table and is the sole entry point for the seven IPC
// syscalls. All mutation of kernel state happens while table.mu is held;
// no method blocks while holding it — a blocking syscall releases the lock
// and waits on the calling task's own wakeup latch instead.
type Kernel struct {
	table   *TaskTable
	log     logrus.FieldLogger
	metrics Metrics
}

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithLogger attaches a structured logger. Defaults to
// logrus.StandardLogger() if not supplied.
func WithLogger(log logrus.FieldLogger) Option {
	return func(k *Kernel) { k.log = log }
}

// WithMetrics attaches a Metrics sink. Defaults to a no-op implementation.
func WithMetrics(m Metrics) Option {
	return func(k *Kernel) { k.metrics = m }
}

// New builds a Kernel with a fixed-size task table of n slots, each task i
// given priorities[i] (zero if priorities is shorter than n).
func New(n int, priorities []Priority, opts ...Option) *Kernel {
	k := &Kernel{
		table:   NewTaskTable(n, priorities),
		log:     logrus.StandardLogger(),
		metrics: noopMetrics{},
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// NumTasks returns the fixed size of the task table.
func (k *Kernel) NumTasks() int { return k.table.size() }

// TaskId returns the current TaskId for a task table index. Used by
// scenario setup and the debug API; not itself a syscall.
func (k *Kernel) TaskId(idx uint16) (TaskId, bool) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	if !k.table.inRange(idx) {
		return TaskId{}, false
	}

	return k.table.get(idx).id(), true
}

// Snapshot describes one task's observable state, for the debug API and
// tests. It copies out of the table under lock so callers never see a
// torn read.
type Snapshot struct {
	Id        TaskId
	State     StateKind
	Priority  Priority
	NotifSet  uint32
	Peer      TaskId
	HasPeer   bool
}

// Snapshot copies the current state of every task out of the table.
func (k *Kernel) Snapshot() []Snapshot {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	out := make([]Snapshot, len(k.table.tasks))
	for i := range k.table.tasks {
		d := &k.table.tasks[i]
		out[i] = Snapshot{
			Id:       d.id(),
			State:    d.state.kind,
			Priority: d.priority,
			NotifSet: d.notifSet,
		}

		if d.state.kind == BlockedInSend || d.state.kind == BlockedInReply {
			out[i].Peer = d.state.peer
			out[i].HasPeer = true
		}
	}

	return out
}
