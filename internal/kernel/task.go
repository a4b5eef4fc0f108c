// Package kernel implements the inter-task IPC core of the Hubris-style
// microkernel model: the task table, addressing and identity, memory
// leasing, the rendezvous engine, and the notification subsystem.
//
// Everything in this package is a faithful Go rendering of a single-CPU,
// no-allocation kernel critical section. A *Kernel holds one mutex; every
// exported method takes it for each critical section, standing in for
// "interrupts disabled across each syscall's critical section." A blocking
// SEND or RECV releases it while it waits.
package kernel

import "fmt"

const (
	// MaxPayload is the largest message body the kernel will copy in one
	// rendezvous transfer.
	MaxPayload = 256

	// MaxLeases is the largest number of lease descriptors a single SEND
	// may carry.
	MaxLeases = 255

	// NotificationBits is the width of the per-task notification set.
	NotificationBits = 32
)

// TaskId packs a task table index with the generation the caller observed
// it at. A TaskId is only ever compared against the table's current
// generation for that index; it is never dereferenced directly.
type TaskId struct {
	Index      uint16
	Generation uint8
}

// KernelTaskID is the synthetic sender identity used for notification
// messages and for POSTs originating from the kernel itself.
var KernelTaskID = TaskId{Index: ^uint16(0), Generation: 0}

// IsKernel reports whether id denotes the synthetic kernel sender.
func (id TaskId) IsKernel() bool {
	return id.Index == KernelTaskID.Index
}

func (id TaskId) String() string {
	if id.IsKernel() {
		return "kernel"
	}

	return fmt.Sprintf("task(%d,gen=%d)", id.Index, id.Generation)
}

// DeadCode packs generation into the low 8 bits of a response code with the
// top 24 bits set.
func DeadCode(generation uint8) uint32 {
	return 0xFFFFFF00 | uint32(generation)
}

// IsDeadCode reports whether code's top 24 bits are all set.
func IsDeadCode(code uint32) bool {
	return code&0xFFFFFF00 == 0xFFFFFF00
}

// Priority is a boot-time-fixed ranking; lower values are more urgent. The
// IPC core reads it only to enforce the up-hill send rule; it never
// mutates it.
type Priority int

// LeaseAttr is the access mode granted by a lease descriptor.
type LeaseAttr uint8

const (
	LeaseR LeaseAttr = 1 << iota
	LeaseW
)

func (a LeaseAttr) String() string {
	switch a {
	case LeaseR:
		return "R"
	case LeaseW:
		return "W"
	case LeaseR | LeaseW:
		return "RW"
	default:
		return "none"
	}
}

// LeaseDescriptor describes one window of the sender's memory made visible
// to the receiver for the duration of the sender's BlockedInReply state.
type LeaseDescriptor struct {
	Base   []byte // the sender's backing memory for this window
	Length int
	Attr   LeaseAttr
}

// LeaseInfo is the read-only view returned by BORROW_INFO.
type LeaseInfo struct {
	Length int
	Attr   LeaseAttr
}

// RecvSourceKind is the closed tagged variant for RECV's source argument:
// exactly three cases, exhaustively matched.
type RecvSourceKind int

const (
	// SourceAny accepts a send from any task (open receive).
	SourceAny RecvSourceKind = iota
	// SourceSpecific accepts a send only from the named peer, but does not
	// fail identity if that peer is gone — it simply never matches.
	SourceSpecific
	// SourceClosed accepts a send only from the named peer and additionally
	// fails immediately with a dead code if the peer's generation is stale.
	SourceClosed
)

// RecvSource is the argument naming which senders RECV is willing to
// consume from.
type RecvSource struct {
	Kind TaskId
	Tag  RecvSourceKind
}

// Open builds the Any receive source.
func Open() RecvSource { return RecvSource{Tag: SourceAny} }

// Specific builds a receive source matching only peer, without identity
// failure on a stale generation.
func Specific(peer TaskId) RecvSource { return RecvSource{Tag: SourceSpecific, Kind: peer} }

// Closed builds a receive source matching only peer, failing immediately
// with a dead code if peer's generation is stale.
func Closed(peer TaskId) RecvSource { return RecvSource{Tag: SourceClosed, Kind: peer} }

func (s RecvSource) matches(sender TaskId) bool {
	switch s.Tag {
	case SourceAny:
		return true
	case SourceSpecific, SourceClosed:
		return s.Kind == sender
	default:
		return false
	}
}

// SendArgs is the saved state of an in-flight SEND or outstanding REPLY
// wait: operation code, the two slice descriptors, the lease list, and the
// target. It lives entirely in the blocked sender's own TaskDescriptor —
// the kernel owns no dynamic storage for it.
type SendArgs struct {
	Op     uint16
	Out    []byte
	In     []byte
	Leases []LeaseDescriptor
	Target TaskId
}

// RecvMessage is what RECV returns on a successful match or notification.
type RecvMessage struct {
	Sender           TaskId
	Operation        uint32
	MessageLen       int
	ResponseCapacity int
	LeaseCount       int
}

// IsNotification reports whether the message was synthesized by the
// notification subsystem rather than delivered from a real sender.
func (m RecvMessage) IsNotification() bool {
	return m.Sender.IsKernel()
}
