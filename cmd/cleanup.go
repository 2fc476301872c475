package main

import (
	"time"
)

// startCleanupLoop runs task every interval until the returned stop func is called.
// stop blocks until the loop goroutine has exited.
func startCleanupLoop(interval time.Duration, task func()) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				task()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		<-exited
	}
}
