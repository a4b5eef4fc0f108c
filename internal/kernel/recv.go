package kernel

// Recv implements the RECV syscall. Notifications take precedence over any
// pending sender; among pending senders, FIFO order of entry into
// BlockedInSend is preserved.
func (k *Kernel) Recv(caller TaskId, buf []byte, notifMask uint32, source RecvSource) (RecvMessage, error) {
	k.table.mu.Lock()
	k.metrics.SyscallObserved("RECV")

	c := k.table.get(caller.Index)

	if matched := c.notifSet & notifMask; matched != 0 {
		c.notifSet &^= matched
		k.metrics.NotificationCoalesced()
		k.table.mu.Unlock()
		return RecvMessage{Sender: KernelTaskID, Operation: matched}, nil
	}

	if source.Tag == SourceClosed {
		if !k.table.inRange(source.Kind.Index) {
			k.table.mu.Unlock()
			return RecvMessage{}, &PolicyError{Reason: "closed receive: peer index out of range"}
		}

		peer := k.table.get(source.Kind.Index)
		if peer.generation != source.Kind.Generation {
			gen := peer.generation
			k.metrics.DeadCodeDelivered()
			k.table.mu.Unlock()
			return RecvMessage{}, &DeadCodeError{Peer: source.Kind, Generation: gen}
		}
	}

	if sender := k.findPendingSender(c.id(), source); sender != nil {
		msg := k.transfer(sender, c, buf)
		k.table.mu.Unlock()
		return msg, nil
	}

	c.state = blockedInRecv(source, buf, notifMask)
	k.table.mu.Unlock()

	<-c.replyWake

	k.table.mu.Lock()
	res := c.pendingRecv
	c.pendingRecv = pendingRecvResult{}
	k.table.mu.Unlock()

	return res.msg, res.err
}

// findPendingSender returns the earliest-queued task currently blocked in
// send to receiver and accepted by source, or nil. Caller must hold
// table.mu.
func (k *Kernel) findPendingSender(receiver TaskId, source RecvSource) *TaskDescriptor {
	var best *TaskDescriptor

	for i := range k.table.tasks {
		d := &k.table.tasks[i]
		if d.state.kind != BlockedInSend {
			continue
		}

		if d.state.peer.Index != receiver.Index {
			continue
		}

		if !source.matches(d.id()) {
			continue
		}

		if best == nil || d.state.sendSeq < best.state.sendSeq {
			best = d
		}
	}

	return best
}
