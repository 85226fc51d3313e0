// internal/store/audit.go
package store

import (
	"sort"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/models"
)

// UpdateCandidateStage performs the primary stage write and then,
// unconditionally on success, appends one immutable StageHistoryEntry
// capturing the before/after stages. The second write happens inside the same
// critical section, so a reader never observes the new stage without its
// audit entry. The transport rejects failed writes before this method runs,
// which is what guarantees no entry exists for a failed write.
func (s *Store) UpdateCandidateStage(id int64, newStage models.Stage) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cand, ok := s.candidates[id]
	if !ok {
		return models.Candidate{}, stderrors.NewNotFoundError("candidate", id)
	}

	previous := cand.Stage
	cand.Stage = newStage
	s.candidates[id] = cand

	s.recordStageChange(id, previous, newStage)

	return cand, nil
}

// recordStageChange appends the audit record. Callers hold s.mu. Entries are
// never mutated after creation; newStage always equals the candidate's stage
// at the instant the entry is created.
func (s *Store) recordStageChange(candidateID int64, previous, next models.Stage) {
	entry := models.StageHistoryEntry{
		ID:            s.nextID("stageHistory"),
		CandidateID:   candidateID,
		PreviousStage: previous,
		NewStage:      next,
		Timestamp:     s.now(),
	}
	s.stageHistory[entry.ID] = entry
}

// StageHistory returns the audit trail for one candidate, oldest first.
func (s *Store) StageHistory(candidateID int64) []models.StageHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StageHistoryEntry, 0)
	for _, entry := range s.stageHistory {
		if entry.CandidateID == candidateID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
