package assistant

import (
	"context"
	"fmt"
	"time"
)

// uniqueRandomInts picks count distinct integers from [lo, hi] with a partial Fisher-Yates shuffle
func uniqueRandomInts(count, lo, hi int, intN func(n int) int) ([]int, error) {
	size := hi - lo + 1
	if count < 0 || count > size {
		return nil, fmt.Errorf("cannot pick %d unique numbers from [%d, %d]", count, lo, hi)
	}

	pool := make([]int, size)
	for i := range pool {
		pool[i] = lo + i
	}
	for i := 0; i < count; i++ {
		j := i + intN(size-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count], nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
