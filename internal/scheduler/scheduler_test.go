package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsJobUntilStopped(t *testing.T) {
	var runs atomic.Int32
	s := New(5*time.Millisecond, func() { runs.Add(1) })

	s.Start()
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.IsRunning())

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_StartStopIdempotent(t *testing.T) {
	s := New(time.Hour, func() {})

	s.Stop()
	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}
