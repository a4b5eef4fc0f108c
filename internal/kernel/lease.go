package kernel

// revokeLeases marks a task's exposed lease list invalid. Called whenever
// the task exits a blocked-send/blocked-reply state by any means:
// successful reply, forced unblock, or a peer generation bump.
func revokeLeases(d *TaskDescriptor) {
	d.leaseRevoked = true
}

// resolveLease validates that caller may address lender's lease idx: lender
// must be in range, at the generation caller believes it's at, currently
// BlockedInReply to caller, with live (unrevoked) leases and idx in range.
// Caller must hold table.mu.
func (k *Kernel) resolveLease(caller, lender TaskId, idx uint8) (*LeaseDescriptor, error) {
	if !k.table.inRange(lender.Index) {
		return nil, &LeaseError{Reason: "lender index out of range"}
	}

	l := k.table.get(lender.Index)
	if l.generation != lender.Generation {
		return nil, &LeaseError{Reason: "lender generation is stale"}
	}

	if l.state.kind != BlockedInReply || l.state.peer.Index != caller.Index {
		return nil, &LeaseError{Reason: "lender is not blocked in reply to caller"}
	}

	if l.leaseRevoked {
		return nil, &LeaseError{Reason: "leases have been revoked"}
	}

	if int(idx) >= len(l.sendArgs.Leases) {
		return nil, &LeaseError{Reason: "lease index out of range"}
	}

	return &l.sendArgs.Leases[idx], nil
}

// BorrowInfo implements BORROW_INFO: the length and attribute of a lease,
// or an error if no such lease is addressable from caller.
func (k *Kernel) BorrowInfo(caller, lender TaskId, idx uint8) (LeaseInfo, error) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	k.metrics.SyscallObserved("BORROW_INFO")

	ld, err := k.resolveLease(caller, lender, idx)
	if err != nil {
		return LeaseInfo{}, err
	}

	return LeaseInfo{Length: ld.Length, Attr: ld.Attr}, nil
}

// BorrowRead implements BORROW_READ: a bounds-checked copy out of the
// lender's leased window into dst.
func (k *Kernel) BorrowRead(caller, lender TaskId, idx uint8, offset int, dst []byte) (int, error) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	k.metrics.SyscallObserved("BORROW_READ")

	ld, err := k.resolveLease(caller, lender, idx)
	if err != nil {
		return 0, err
	}

	if ld.Attr&LeaseR == 0 {
		return 0, &LeaseError{Reason: "lease does not grant R"}
	}

	if offset < 0 || offset > ld.Length {
		return 0, &LeaseError{Reason: "offset out of bounds"}
	}

	return copy(dst, ld.Base[offset:ld.Length]), nil
}

// BorrowWrite implements BORROW_WRITE: a bounds-checked copy from src into
// the lender's leased window.
func (k *Kernel) BorrowWrite(caller, lender TaskId, idx uint8, offset int, src []byte) (int, error) {
	k.table.mu.Lock()
	defer k.table.mu.Unlock()

	k.metrics.SyscallObserved("BORROW_WRITE")

	ld, err := k.resolveLease(caller, lender, idx)
	if err != nil {
		return 0, err
	}

	if ld.Attr&LeaseW == 0 {
		return 0, &LeaseError{Reason: "lease does not grant W"}
	}

	if offset < 0 || offset > ld.Length {
		return 0, &LeaseError{Reason: "offset out of bounds"}
	}

	return copy(ld.Base[offset:ld.Length], src), nil
}
