package kernel

import "sync"

// TaskDescriptor is one fixed slot of the Task Table. Slots are never
// allocated or freed at runtime; a restart re-initializes a slot in place.
type TaskDescriptor struct {
	index      uint16
	generation uint8
	priority   Priority

	state taskState

	sendArgs SendArgs

	notifSet  uint32
	replyWake chan struct{} // 1-buffered wakeup latch; sent to on transition out of blocking

	// leaseRevoked marks that the lease list this task exposed while
	// BlockedInReply has been revoked and BORROW_* must now fail. Reset to
	// false whenever a fresh SEND carries a new lease list.
	leaseRevoked bool

	// pendingRecv/pendingReply carry the result a blocked RECV or SEND
	// picks up the instant its replyWake fires. Set by whichever syscall
	// performs the wake, read by the woken goroutine under the same lock.
	pendingRecv  pendingRecvResult
	pendingReply pendingReplyResult
}

type pendingRecvResult struct {
	msg RecvMessage
	err error
}

type pendingReplyResult struct {
	code uint32
	len  int
}

// id returns this task's current TaskId.
func (d *TaskDescriptor) id() TaskId {
	return TaskId{Index: d.index, Generation: d.generation}
}

// TaskTable is the fixed-size array of task descriptors, indexed 0..N-1.
// It is the only shared mutable structure in the kernel; every method is
// called with the Kernel's mutex held.
type TaskTable struct {
	mu    sync.Mutex
	tasks []TaskDescriptor
	seq   uint64 // monotonic counter for BlockedInSend FIFO ordering
}

// NewTaskTable allocates a table with n fixed slots, each starting at
// generation 0, Runnable, with priority priorities[i] (0 if priorities is
// shorter than n). Allocation happens once at boot;
// nothing under this package calls append on the backing slice afterward.
func NewTaskTable(n int, priorities []Priority) *TaskTable {
	tasks := make([]TaskDescriptor, n)
	for i := range tasks {
		tasks[i].index = uint16(i)
		tasks[i].state = runnableState()
		tasks[i].replyWake = make(chan struct{}, 1)
		if i < len(priorities) {
			tasks[i].priority = priorities[i]
		}
	}

	return &TaskTable{tasks: tasks}
}

func (t *TaskTable) size() int { return len(t.tasks) }

func (t *TaskTable) nextSeq() uint64 {
	t.seq++
	return t.seq
}

// inRange reports whether idx is a valid task table index.
func (t *TaskTable) inRange(idx uint16) bool {
	return int(idx) < len(t.tasks)
}

func (t *TaskTable) get(idx uint16) *TaskDescriptor {
	return &t.tasks[idx]
}

// wake signals a task's reply/recv wakeup latch. The caller must hold the
// table's owning Kernel lock; the send is non-blocking by construction
// (1-buffered, at most one pending wake per task at a time).
func (d *TaskDescriptor) wake() {
	select {
	case d.replyWake <- struct{}{}:
	default:
	}
}
