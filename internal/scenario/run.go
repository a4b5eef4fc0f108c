package scenario

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Guiguiprim/hubris/internal/journal"
	"github.com/Guiguiprim/hubris/internal/kernel"
)

// NameResolver maps a task's configured name to its live TaskId. Scenario
// programs address peers by name; the kernel addresses them by TaskId.
type NameResolver interface {
	Resolve(name string) (kernel.TaskId, bool)
}

// Clock supplies the wall-clock timestamps scenario steps are journaled
// under. Production use passes time.Now; tests pass a fixed or advancing
// stand-in so replays are reproducible.
type Clock func() time.Time

// Run executes every task's program concurrently against k, journaling
// each step under runID. It returns the first error encountered by any
// program, if any; a step returning a kernel-level error (dead code,
// policy, lease failure) is journaled but does not itself stop the run —
// only a malformed scenario step does.
func Run(k *kernel.Kernel, names NameResolver, s *Scenario, j *journal.Journal, runID string, clock Clock) error {
	var g errgroup.Group

	for taskName, program := range s.Programs {
		taskName, program := taskName, program

		self, ok := names.Resolve(taskName)
		if !ok {
			return fmt.Errorf("scenario: unknown task %q", taskName)
		}

		g.Go(func() error {
			return runProgram(k, names, self, program, j, runID, clock)
		})
	}

	return g.Wait()
}

func runProgram(k *kernel.Kernel, names NameResolver, self kernel.TaskId, program []Step, j *journal.Journal, runID string, clock Clock) error {
	var lastRecv kernel.RecvMessage
	var lastRecvBuf []byte

	for _, step := range program {
		detail := fmt.Sprintf("%s target=%s opcode=%d", step.Op, step.Target, step.OpCode)
		result := ""

		switch strings.ToUpper(step.Op) {
		case "SEND":
			target, ok := names.Resolve(step.Target)
			if !ok {
				return fmt.Errorf("scenario: SEND: unknown target %q", step.Target)
			}

			out, err := step.Payload()
			if err != nil {
				return err
			}

			in := make([]byte, step.BufLen)
			code, n, sendErr := k.Send(self, target, step.OpCode, out, in, nil)
			if sendErr != nil {
				result = "error: " + sendErr.Error()
			} else {
				result = fmt.Sprintf("code=%#x reply_len=%d reply=%x", code, n, in[:n])
			}

		case "RECV":
			source, err := resolveSource(names, step.Source)
			if err != nil {
				return err
			}

			buf := make([]byte, step.BufLen)
			msg, recvErr := k.Recv(self, buf, step.NotifMask, source)
			if recvErr != nil {
				result = "error: " + recvErr.Error()
			} else {
				lastRecv = msg
				lastRecvBuf = buf
				result = fmt.Sprintf("sender=%s op=%#x len=%d cap=%d leases=%d body=%x",
					msg.Sender, msg.Operation, msg.MessageLen, msg.ResponseCapacity, msg.LeaseCount,
					truncate(buf, msg.MessageLen))
			}

		case "REPLY":
			peer := lastRecv.Sender
			if step.Target != "" {
				resolved, ok := names.Resolve(step.Target)
				if !ok {
					return fmt.Errorf("scenario: REPLY: unknown target %q", step.Target)
				}

				peer = resolved
			}

			msg, err := step.Payload()
			if err != nil {
				return err
			}

			k.Reply(self, peer, step.Code, msg)
			result = fmt.Sprintf("replied to %s code=%#x", peer, step.Code)

		case "POST":
			target, ok := names.Resolve(step.Target)
			if !ok {
				return fmt.Errorf("scenario: POST: unknown target %q", step.Target)
			}

			k.Post(target.Index, step.Bits)
			result = fmt.Sprintf("posted bits=%#x to %s", step.Bits, target)

		case "RESTART":
			target, ok := names.Resolve(step.Target)
			if !ok {
				return fmt.Errorf("scenario: RESTART: unknown target %q", step.Target)
			}

			newGen, err := k.Restart(target.Index)
			if err != nil {
				return err
			}

			result = fmt.Sprintf("restarted %s -> generation %d", step.Target, newGen)

		default:
			return fmt.Errorf("scenario: unknown op %q", step.Op)
		}

		if j != nil {
			if err := j.Record(runID, clock(), journal.Entry{
				Syscall: strings.ToUpper(step.Op),
				Task:    self.Index,
				Detail:  detail,
				Result:  result,
			}); err != nil {
				return err
			}
		}
	}

	_ = lastRecvBuf // assigned on each RECV but not read after the loop

	return nil
}

func resolveSource(names NameResolver, spec string) (kernel.RecvSource, error) {
	if spec == "" || strings.EqualFold(spec, "any") {
		return kernel.Open(), nil
	}

	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return kernel.RecvSource{}, fmt.Errorf("scenario: malformed source %q", spec)
	}

	peer, ok := names.Resolve(parts[1])
	if !ok {
		return kernel.RecvSource{}, fmt.Errorf("scenario: source: unknown task %q", parts[1])
	}

	switch strings.ToLower(parts[0]) {
	case "closed":
		return kernel.Closed(peer), nil
	case "specific":
		return kernel.Specific(peer), nil
	default:
		return kernel.RecvSource{}, fmt.Errorf("scenario: unknown source kind %q", parts[0])
	}
}

func truncate(buf []byte, n int) []byte {
	if n > len(buf) {
		n = len(buf)
	}

	return buf[:n]
}
