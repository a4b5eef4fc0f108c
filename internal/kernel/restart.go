package kernel

import "fmt"

// Restart implements task-restart integration. It is invoked by the
// external supervisor, never by the IPC core itself. It bumps target's
// generation (wrapping mod 256, collisions accepted as a known risk at
// this width), wakes every task whose blocked state references target
// with a dead code for the new generation, revokes the leases those tasks
// had exposed, and clears target's own state.
func (k *Kernel) Restart(target uint16) (uint8, error) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	if !k.table.inRange(target) {
		return 0, fmt.Errorf("kernel: restart: index %d out of range", target)
	}

	t := k.table.get(target)
	t.generation++
	newGen := t.generation

	for i := range k.table.tasks {
		d := &k.table.tasks[i]
		if d == t {
			continue
		}

		switch d.state.kind {
		case BlockedInSend, BlockedInReply:
			if d.state.peer.Index != target {
				continue
			}

			revokeLeases(d)
			d.pendingReply = pendingReplyResult{code: DeadCode(newGen), len: 0}
			d.state = runnableState()
			d.wake()
			k.metrics.DeadCodeDelivered()

		case BlockedInRecv:
			if d.state.source.Tag != SourceClosed || d.state.source.Kind.Index != target {
				continue
			}

			d.pendingRecv = pendingRecvResult{err: &DeadCodeError{
				Peer:       TaskId{Index: target, Generation: newGen},
				Generation: newGen,
			}}
			d.state = runnableState()
			d.wake()
			k.metrics.DeadCodeDelivered()
		}
	}

	revokeLeases(t)
	t.state = runnableState()
	t.notifSet = 0 // policy knob: pending notification bits are cleared on restart

	return newGen, nil
}
