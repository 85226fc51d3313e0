// internal/coordinator/notices.go
package coordinator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	stderrors "talentflow-backend/internal/common/errors"
)

// Notice is a transient, user-visible signal with a bounded lifetime. The UI
// renders it as a dismissible notification; rendering is out of scope here.
type Notice struct {
	ID        string              `json:"id"`
	Code      stderrors.ErrorCode `json:"code"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"createdAt"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// noticeBoard holds active notices and prunes expired ones on read.
type noticeBoard struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	items []Notice
}

func newNoticeBoard(ttl time.Duration, now func() time.Time) *noticeBoard {
	if now == nil {
		now = time.Now
	}
	return &noticeBoard{ttl: ttl, now: now}
}

func (b *noticeBoard) push(code stderrors.ErrorCode, message string) Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	created := b.now()
	notice := Notice{
		ID:        uuid.New().String(),
		Code:      code,
		Message:   message,
		CreatedAt: created,
		ExpiresAt: created.Add(b.ttl),
	}
	b.items = append(b.items, notice)
	return notice
}

// active returns unexpired notices, dropping expired ones as a side effect.
func (b *noticeBoard) active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now()
	kept := b.items[:0]
	for _, n := range b.items {
		if n.ExpiresAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	b.items = kept
	return append([]Notice(nil), kept...)
}

// dismiss removes one notice by id before its TTL elapses.
func (b *noticeBoard) dismiss(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.items[:0]
	for _, n := range b.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	b.items = kept
}
