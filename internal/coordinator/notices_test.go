// internal/coordinator/notices_test.go
package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "talentflow-backend/internal/common/errors"
)

func TestNoticeBoard_ExpiresAfterTTL(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	board := newNoticeBoard(3*time.Second, func() time.Time { return current })

	board.push(stderrors.ErrCodeTransientWriteFailure, "write failed")
	require.Len(t, board.active(), 1)

	current = current.Add(2 * time.Second)
	assert.Len(t, board.active(), 1)

	current = current.Add(2 * time.Second)
	assert.Empty(t, board.active())
}

func TestNoticeBoard_Dismiss(t *testing.T) {
	board := newNoticeBoard(time.Minute, nil)

	first := board.push(stderrors.ErrCodeTransientWriteFailure, "first")
	second := board.push(stderrors.ErrCodeTransientWriteFailure, "second")
	require.Len(t, board.active(), 2)

	board.dismiss(first.ID)

	active := board.active()
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	// Dismissing an unknown id is harmless.
	board.dismiss("nope")
	assert.Len(t, board.active(), 1)
}

func TestNoticeBoard_UniqueIDs(t *testing.T) {
	board := newNoticeBoard(time.Minute, nil)

	a := board.push(stderrors.ErrCodeTransientWriteFailure, "a")
	b := board.push(stderrors.ErrCodeTransientWriteFailure, "b")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.CreatedAt.Add(time.Minute), a.ExpiresAt)
}
