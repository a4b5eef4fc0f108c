package kernel

// Post implements the POST syscall. It never blocks, never
// copies user payload, and never requires the target to be in any
// particular state; it may be called by the interrupt-routing layer, timer
// expiry, another task, or the kernel itself. Posting the same bit twice
// before it is consumed is idempotent.
func (k *Kernel) Post(target uint16, bits uint32) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	k.metrics.SyscallObserved("POST")

	if !k.table.inRange(target) {
		return
	}

	t := k.table.get(target)
	t.notifSet |= bits

	if t.state.kind != BlockedInRecv {
		return
	}

	matched := t.notifSet & t.state.notifMask
	if matched == 0 {
		return
	}

	t.notifSet &^= matched
	t.pendingRecv = pendingRecvResult{msg: RecvMessage{Sender: KernelTaskID, Operation: matched}}
	t.state = runnableState()
	t.wake()

	k.metrics.NotificationCoalesced()
}
