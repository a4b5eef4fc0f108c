package kernel

// Reply implements the REPLY syscall. It is infallible and fire-and-forget:
// if peer's generation has moved on, or peer is not BlockedInReply to
// caller, the call is silently a no-op.
func (k *Kernel) Reply(caller TaskId, peer TaskId, code uint32, msg []byte) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	k.metrics.SyscallObserved("REPLY")

	if !k.table.inRange(peer.Index) {
		return
	}

	p := k.table.get(peer.Index)
	if p.generation != peer.Generation {
		return
	}

	if p.state.kind != BlockedInReply || p.state.peer.Index != caller.Index {
		return
	}

	n := copy(p.sendArgs.In, msg)

	revokeLeases(p)

	p.pendingReply = pendingReplyResult{code: code, len: n}
	p.state = runnableState()
	p.wake()
}
