// internal/models/timeline.go
package models

import "time"

// StageHistoryEntry is the sole audit trail for candidate movement.
// Immutable once created.
type StageHistoryEntry struct {
	ID          int64 `json:"id"`
	CandidateID int64 `json:"candidateId"`
	// PreviousStage is empty for the first recorded transition.
	PreviousStage Stage     `json:"previousStage,omitempty"`
	NewStage      Stage     `json:"newStage"`
	Timestamp     time.Time `json:"timestamp"`
}

// Note is free-form text attached to a candidate. Immutable once created.
type Note struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidateId"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// TimelineItemType discriminates merged timeline entries.
type TimelineItemType string

const (
	TimelineStageChange TimelineItemType = "stage_change"
	TimelineNote        TimelineItemType = "note"
)

// TimelineItem is one entry of a candidate's merged, reverse-chronological
// history of stage changes and notes.
type TimelineItem struct {
	Type      TimelineItemType   `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	Stage     *StageHistoryEntry `json:"stageChange,omitempty"`
	Note      *Note              `json:"note,omitempty"`
}
