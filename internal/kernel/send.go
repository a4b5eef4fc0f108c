package kernel

// Send implements the SEND syscall. A policy violation returns a
// *PolicyError, and a Faulted or stale-generation target returns its dead
// code, both without blocking. Otherwise Send blocks until the receiver has
// both received the message and replied, until the peer is restarted, or
// until ForceUnblock releases this task. Restarting the calling task itself
// does not wake a Send blocked in it.
func (k *Kernel) Send(caller TaskId, target TaskId, op uint16, out []byte, in []byte, leases []LeaseDescriptor) (responseCode uint32, replyLen int, err error) {
	k.table.mu.Lock()
	k.metrics.SyscallObserved("SEND")

	if !k.table.inRange(target.Index) {
		k.table.mu.Unlock()
		return 0, 0, &PolicyError{Reason: "target index out of range"}
	}

	if target.IsKernel() {
		k.table.mu.Unlock()
		return 0, 0, &PolicyError{Reason: "cannot SEND to the kernel"}
	}

	if len(out) > MaxPayload {
		k.table.mu.Unlock()
		return 0, 0, &PolicyError{Reason: "payload exceeds MaxPayload"}
	}

	if len(leases) > MaxLeases {
		k.table.mu.Unlock()
		return 0, 0, &PolicyError{Reason: "too many leases"}
	}

	c := k.table.get(caller.Index)
	t := k.table.get(target.Index)

	if t.priority >= c.priority {
		k.table.mu.Unlock()
		return 0, 0, &PolicyError{Reason: "up-hill send: target is not strictly higher priority"}
	}

	if t.state.kind == Faulted || t.generation != target.Generation {
		code := DeadCode(t.generation)
		k.metrics.DeadCodeDelivered()
		k.table.mu.Unlock()
		return code, 0, nil
	}

	c.sendArgs = SendArgs{Op: op, Out: out, In: in, Leases: leases, Target: target}

	if t.state.kind == BlockedInRecv && t.state.source.matches(c.id()) {
		destBuf := t.state.recvBuf
		msg := k.transfer(c, t, destBuf)
		t.pendingRecv = pendingRecvResult{msg: msg}
		t.wake()
	} else {
		seq := k.table.nextSeq()
		c.state = blockedInSend(target, seq)
	}

	k.table.mu.Unlock()

	<-c.replyWake

	k.table.mu.Lock()
	res := c.pendingReply
	c.pendingReply = pendingReplyResult{}
	k.table.mu.Unlock()

	return res.code, res.len, nil
}

// transfer performs the single uninterruptible payload copy and state
// transition shared by SEND (matching an already-waiting receiver) and
// RECV (matching an already-waiting sender). Caller must hold table.mu.
func (k *Kernel) transfer(sender, receiver *TaskDescriptor, destBuf []byte) RecvMessage {
	args := sender.sendArgs

	copy(destBuf, args.Out)

	msg := RecvMessage{
		Sender:           sender.id(),
		Operation:        uint32(args.Op),
		MessageLen:       len(args.Out),
		ResponseCapacity: len(args.In),
		LeaseCount:       len(args.Leases),
	}

	sender.leaseRevoked = false
	sender.state = blockedInReply(receiver.id())
	receiver.state = runnableState()

	k.metrics.RendezvousCompleted()

	return msg
}
