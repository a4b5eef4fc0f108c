package kernel

import "errors"

// ErrForciblyUnblocked is the error a forcibly unblocked RECV returns.
var ErrForciblyUnblocked = errors.New("kernel: task was forcibly unblocked")

// ForceUnblock is the supervisory primitive for implementing SEND/RECV
// timeouts: it forcibly unblocks a task through a supervisory syscall, and
// from the peer's perspective this is indistinguishable from that task
// having restarted (a subsequent REPLY silently no-ops). Unlike Restart, it
// touches only the named task: it does not bump any generation and does
// not wake any other task that may reference this one as a peer. code is
// delivered as a blocked SEND's response code, exactly as a timeout or
// cancellation code would be; a blocked RECV returns ErrForciblyUnblocked
// instead.
func (k *Kernel) ForceUnblock(index uint16, code uint32) error {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	if !k.table.inRange(index) {
		return &PolicyError{Reason: "force-unblock: index out of range"}
	}

	d := k.table.get(index)

	switch d.state.kind {
	case BlockedInSend, BlockedInReply:
		revokeLeases(d)
		d.pendingReply = pendingReplyResult{code: code, len: 0}
		d.state = runnableState()
		d.wake()
	case BlockedInRecv:
		d.pendingRecv = pendingRecvResult{err: ErrForciblyUnblocked}
		d.state = runnableState()
		d.wake()
	default:
		// Runnable or Faulted: nothing to unblock.
	}

	return nil
}
