package kernel

// StateKind enumerates a task's five possible scheduling states. Go has no
// sum types; taskState values carry their payload and the kind field is
// switched on everywhere state is inspected, the same shape used for
// gVisor's task state machine.
type StateKind int

const (
	Runnable StateKind = iota
	BlockedInSend
	BlockedInReply
	BlockedInRecv
	Faulted
)

func (k StateKind) String() string {
	switch k {
	case Runnable:
		return "Runnable"
	case BlockedInSend:
		return "BlockedInSend"
	case BlockedInReply:
		return "BlockedInReply"
	case BlockedInRecv:
		return "BlockedInRecv"
	case Faulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// taskState is the closed tagged variant. Exactly one of these describes a
// task at any moment; a TaskDescriptor holds one by value.
type taskState struct {
	kind StateKind

	// Valid only when kind == BlockedInSend or BlockedInReply.
	peer TaskId

	// Valid only when kind == BlockedInRecv.
	source    RecvSource
	recvBuf   []byte
	notifMask uint32

	// FIFO sequence number assigned when a task enters BlockedInSend, used
	// to break ties on open RECV.
	sendSeq uint64
}

func runnableState() taskState { return taskState{kind: Runnable} }

func blockedInSend(peer TaskId, seq uint64) taskState {
	return taskState{kind: BlockedInSend, peer: peer, sendSeq: seq}
}

func blockedInReply(peer TaskId) taskState {
	return taskState{kind: BlockedInReply, peer: peer}
}

func blockedInRecv(source RecvSource, buf []byte, mask uint32) taskState {
	return taskState{kind: BlockedInRecv, source: source, recvBuf: buf, notifMask: mask}
}

func faultedState() taskState { return taskState{kind: Faulted} }
