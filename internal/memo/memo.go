// Package memo provides initialize-once values for process-lifetime artifacts.
package memo

import (
	"context"
	"sync"
)

// Value runs its load function at most once and hands every caller the same
// result. A failed load is remembered too: there is no retry.
type Value[T any] struct {
	once sync.Once
	load func(ctx context.Context) (T, error)

	val T
	err error
}

// New wraps load in a Value.
func New[T any](load func(ctx context.Context) (T, error)) *Value[T] {
	return &Value[T]{load: load}
}

// Get returns the loaded value. Only the first caller's ctx is used; later
// callers share its outcome.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.once.Do(func() {
		v.val, v.err = v.load(ctx)
	})
	return v.val, v.err
}
