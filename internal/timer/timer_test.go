package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Guiguiprim/hubris/internal/timer"
)

type fakePoster struct {
	target uint16
	bits   atomic.Uint32
	calls  atomic.Int32
}

func (f *fakePoster) Post(target uint16, bits uint32) {
	f.target = target
	f.bits.Store(bits)
	f.calls.Add(1)
}

func TestTimerPostsOnSchedule(t *testing.T) {
	poster := &fakePoster{}
	tm := timer.New(nil)

	require.NoError(t, tm.Add(timer.Deadline{Schedule: "@every 10ms", Task: 3, Bits: 0b1000}, poster))
	tm.Start()
	defer tm.Stop()

	require.Eventually(t, func() bool {
		return poster.calls.Load() > 0
	}, time.Second, 5*time.Millisecond)

	require.EqualValues(t, 3, poster.target)
	require.EqualValues(t, 0b1000, poster.bits.Load())
}
