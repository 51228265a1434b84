package jobs

import "context"

// slots bounds how many jobs transcribe at the same time.
type slots chan struct{}

func newSlots(n int) slots {
	if n < 1 {
		n = 1
	}
	return make(slots, n)
}

// take blocks until a slot is free or ctx is done.
func (s slots) take(ctx context.Context) error {
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s slots) give() {
	<-s
}

// busy returns how many slots are taken.
func (s slots) busy() int {
	return len(s)
}
