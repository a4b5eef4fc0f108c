package irq_test

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/irq"
)

type fakePoster struct {
	target uint16
	bits   uint32
	posted chan struct{}
}

func (f *fakePoster) Post(target uint16, bits uint32) {
	f.target = target
	f.bits = bits
	close(f.posted)
}

func TestRouterPostsOnSignal(t *testing.T) {
	poster := &fakePoster{posted: make(chan struct{})}
	r := irq.NewRouter([]irq.Route{{Signal: syscall.SIGUSR1, Task: 2, Bits: 0b0100}})

	go r.Run(poster)
	defer r.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case <-poster.posted:
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not routed to a POST")
	}

	require.EqualValues(t, 2, poster.target)
	require.EqualValues(t, 0b0100, poster.bits)
}
