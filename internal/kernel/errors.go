package kernel

import "fmt"

// DeadCodeError signals that a peer's identity failed to validate: the
// named generation no longer matches the live one. Carries the peer's
// current generation so callers can reconstruct the dead code via
// DeadCode(Generation).
type DeadCodeError struct {
	Peer       TaskId
	Generation uint8
}

func (e *DeadCodeError) Error() string {
	return fmt.Sprintf("dead code: %s now at generation %d", e.Peer, e.Generation)
}

// Code returns the packed dead-code response value for this failure.
func (e *DeadCodeError) Code() uint32 { return DeadCode(e.Generation) }

// PolicyError reports a synchronous syscall-argument violation that leaves
// state unchanged: an up-hill send violation, an oversized payload, or too
// many leases.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return "policy violation: " + e.Reason }

// LeaseError reports a BORROW_* failure: bad index, attribute mismatch,
// out-of-bounds offset/length, or a lender no longer blocked in reply to
// the caller.
type LeaseError struct {
	Reason string
}

func (e *LeaseError) Error() string { return "lease error: " + e.Reason }
