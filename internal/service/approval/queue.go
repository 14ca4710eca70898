package approval

import (
	"sort"
	"sync"

	"LineBridge/entity"
)

// Queue holds the latest event from each chat waiting for approval.
// It lives in memory only and is emptied when the integration reloads.
type Queue struct {
	mu      sync.RWMutex
	pending map[string]entity.PendingChat
}

func NewQueue() *Queue {
	return &Queue{
		pending: make(map[string]entity.PendingChat),
	}
}

// Record stores chat, replacing any earlier event from the same chat.
// It reports whether the chat was not pending before.
func (q *Queue) Record(chat entity.PendingChat) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, existed := q.pending[chat.ChatID]
	q.pending[chat.ChatID] = chat
	return !existed
}

func (q *Queue) Get(chatID string) (entity.PendingChat, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	chat, ok := q.pending[chatID]
	return chat, ok
}

func (q *Queue) List() []entity.PendingChat {
	q.mu.RLock()
	defer q.mu.RUnlock()
	list := make([]entity.PendingChat, 0, len(q.pending))
	for _, chat := range q.pending {
		list = append(list, chat)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ChatID < list[j].ChatID
	})
	return list
}

func (q *Queue) Remove(chatID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, chatID)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = make(map[string]entity.PendingChat)
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.pending)
}
