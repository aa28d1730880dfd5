package memory

import (
	"context"
	"sync"
)

// chatLocks is a per-chat FIFO lock. Each acquirer takes a ticket chained
// behind the previous one for the same chat, so work for a chat runs in the
// order Lock was called. Unused chats leave no entry behind.
type chatLocks struct {
	mu      sync.Mutex
	tails   map[int64]chan struct{}
	waiting map[int64]int
}

func newChatLocks() *chatLocks {
	return &chatLocks{
		tails:   make(map[int64]chan struct{}),
		waiting: make(map[int64]int),
	}
}

func (l *chatLocks) lock(ctx context.Context, chatID int64) (func(), error) {
	l.mu.Lock()
	prev := l.tails[chatID]
	mine := make(chan struct{})
	l.tails[chatID] = mine
	l.waiting[chatID]++
	l.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			if l.tails[chatID] == mine {
				delete(l.tails, chatID)
			}
			if l.waiting[chatID]--; l.waiting[chatID] <= 0 {
				delete(l.waiting, chatID)
			}
			l.mu.Unlock()
			close(mine)
		})
	}

	if prev == nil {
		return release, nil
	}

	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		// Keep the chain intact: our ticket is passed on once the
		// predecessor finishes.
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}

// queued counts holders plus waiters for a chat.
func (l *chatLocks) queued(chatID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waiting[chatID]
}
