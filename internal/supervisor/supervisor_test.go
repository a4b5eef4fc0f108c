package supervisor_test

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/kernel"
	"github.com/Guiguiprim/hubris/internal/supervisor"
)

func TestRestartPropagatesDeadCode(t *testing.T) {
	log, hook := test.NewNullLogger()
	k := kernel.New(2, []kernel.Priority{0, 1})
	sup := supervisor.New(k, log)

	sender, _ := k.TaskId(1)
	target, _ := k.TaskId(0)

	done := make(chan struct{})
	var code uint32

	go func() {
		defer close(done)
		code, _, _ = k.Send(sender, target, 0, nil, nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)

	newGen, err := sup.Restart(target.Index)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send did not unblock after restart")
	}

	require.Equal(t, kernel.DeadCode(newGen), code)
	require.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
}

func TestForceUnblockDoesNotTouchGeneration(t *testing.T) {
	log, _ := test.NewNullLogger()
	k := kernel.New(2, []kernel.Priority{0, 1})
	sup := supervisor.New(k, log)

	sender, _ := k.TaskId(1)
	target, _ := k.TaskId(0)

	before, _ := k.TaskId(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Send(sender, target, 0, nil, nil, nil)
	}()

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, sup.ForceUnblock(sender.Index))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send did not unblock")
	}

	after, _ := k.TaskId(1)
	require.Equal(t, before.Generation, after.Generation)

	// A late REPLY aimed at the unblocked sender is a silent no-op.
	require.NotPanics(t, func() {
		k.Reply(target, sender, 0, nil)
	})
}
