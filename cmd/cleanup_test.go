package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartCleanupLoop(t *testing.T) {
	t.Run("runs the task on every tick", func(t *testing.T) {
		var runs atomic.Int32
		stop := startCleanupLoop(time.Millisecond, func() { runs.Add(1) })
		defer stop()

		assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	})

	t.Run("stop ends the loop", func(t *testing.T) {
		var runs atomic.Int32
		stop := startCleanupLoop(time.Millisecond, func() { runs.Add(1) })
		assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, time.Millisecond)

		stopped := make(chan struct{})
		go func() {
			stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("cleanup loop did not exit after stop")
		}

		after := runs.Load()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, after, runs.Load())
	})
}
