package bot

import "sync"

const maxTrackedMessages = 10

// msgTracker Ограниченная история id сообщений по чатам. Нужна только для
// уборки устаревших подсказок — это удобство, а не требование корректности.
type msgTracker struct {
	mu     sync.Mutex
	byChat map[int64][]int
}

func newMsgTracker() *msgTracker {
	return &msgTracker{byChat: map[int64][]int{}}
}

// Add запоминает id сообщения; старые вытесняются.
func (t *msgTracker) Add(chatID int64, messageID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := append(t.byChat[chatID], messageID)
	if len(ids) > maxTrackedMessages {
		ids = ids[len(ids)-maxTrackedMessages:]
	}
	t.byChat[chatID] = ids
}

// Drain забирает и очищает накопленные id.
func (t *msgTracker) Drain(chatID int64) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.byChat[chatID]
	delete(t.byChat, chatID)
	return ids
}
