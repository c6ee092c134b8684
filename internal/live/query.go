package live

import (
	"context"
	"time"
)

// settle is how long the feed must stay quiet before a query is re-run.
const settle = 20 * time.Millisecond

// Result is one evaluation of a live query.
type Result[T any] struct {
	Value T
	Err   error
}

// Watch evaluates load immediately and again after every publish on feed.
// A burst of publishes is folded into one re-evaluation once the feed has
// been quiet for a short settle period. The channel is closed once ctx is
// done.
func Watch[T any](ctx context.Context, feed *Feed, load func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T])
	dirty := make(chan struct{}, 1)

	unsubscribe := feed.Subscribe(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- Result[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-dirty:
			case <-ctx.Done():
				return
			}

			if !quiesce(ctx, dirty) {
				return
			}
		}
	}()

	return out
}

// quiesce drains dirty until no signal arrives for the settle period.
// It reports false if ctx ends first.
func quiesce(ctx context.Context, dirty <-chan struct{}) bool {
	timer := time.NewTimer(settle)
	defer timer.Stop()

	for {
		select {
		case <-dirty:
			timer.Reset(settle)
		case <-timer.C:
			return true
		case <-ctx.Done():
			return false
		}
	}
}
