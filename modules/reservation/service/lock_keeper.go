package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"tablebook/core/logger"

	"github.com/google/uuid"
)

// LockKeeper serializes commit attempts per (table, start-instant) key within
// one process. Waiters on a contended key are served strictly in arrival
// order. A waiter that gives up (context done) is removed from the queue and
// is never granted the lock afterward; a grant that races the give-up is
// handed to the next waiter so the lock cannot leak.
type LockKeeper struct {
	mu    sync.Mutex
	locks map[string]*lockState
}

type lockState struct {
	held    bool
	waiters []chan struct{} // each buffered with capacity 1
}

func NewLockKeeper() *LockKeeper {
	return &LockKeeper{
		locks: make(map[string]*lockState),
	}
}

// LockKey builds the lock key for one table at one start instant
func LockKey(tableID uuid.UUID, start time.Time) string {
	return tableID.String() + "|" + start.UTC().Format(time.RFC3339)
}

// Acquire takes the lock for key, waiting until it is free or ctx is done
func (k *LockKeeper) Acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	st := k.locks[key]
	if st == nil {
		st = &lockState{}
		k.locks[key] = st
	}
	if !st.held {
		st.held = true
		k.mu.Unlock()
		return nil
	}

	ch := make(chan struct{}, 1)
	st.waiters = append(st.waiters, ch)
	k.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		k.mu.Lock()
		defer k.mu.Unlock()
		select {
		case <-ch:
			// The grant raced our timeout. We already count as failed, so
			// pass the lock straight to the next waiter.
			k.releaseLocked(key)
		default:
			k.removeWaiterLocked(key, ch)
		}
		return ctx.Err()
	}
}

// Release frees the lock for key, waking the oldest waiter if any
func (k *LockKeeper) Release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.releaseLocked(key)
}

// AcquireAll takes every lock in the set, in lexicographic key order so
// overlapping sets cannot deadlock each other. On failure every lock already
// taken in this sequence is released before the error surfaces.
func (k *LockKeeper) AcquireAll(ctx context.Context, keys []string) ([]string, error) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	acquired := make([]string, 0, len(sorted))
	for _, key := range sorted {
		if err := k.Acquire(ctx, key); err != nil {
			k.ReleaseAll(acquired)
			return nil, err
		}
		acquired = append(acquired, key)
	}
	return acquired, nil
}

// ReleaseAll frees the given locks in reverse acquisition order
func (k *LockKeeper) ReleaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.Release(keys[i])
	}
}

func (k *LockKeeper) releaseLocked(key string) {
	st := k.locks[key]
	if st == nil || !st.held {
		logger.Warn("LockKeeper:Release:NotHeld", "key", key)
		return
	}
	if len(st.waiters) > 0 {
		next := st.waiters[0]
		st.waiters = st.waiters[1:]
		next <- struct{}{} // lock stays held, ownership moves
		return
	}
	delete(k.locks, key)
}

func (k *LockKeeper) removeWaiterLocked(key string, ch chan struct{}) {
	st := k.locks[key]
	if st == nil {
		return
	}
	for i, w := range st.waiters {
		if w == ch {
			st.waiters = append(st.waiters[:i], st.waiters[i+1:]...)
			return
		}
	}
}
