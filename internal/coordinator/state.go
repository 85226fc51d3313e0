// internal/coordinator/state.go
package coordinator

import (
	"sync"

	"talentflow-backend/internal/models"
)

// boardState is the explicit, owned container for client-visible state: the
// in-memory mirror of the job board and candidate pipeline the UI renders.
// Snapshots are deep copies, so a later mutation can never alias an earlier
// snapshot.
type boardState struct {
	mu         sync.RWMutex
	jobs       []models.Job
	candidates []models.Candidate
}

func cloneJobs(jobs []models.Job) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

func cloneCandidates(cands []models.Candidate) []models.Candidate {
	return append([]models.Candidate(nil), cands...)
}

// Jobs returns a copy of the visible job list.
func (s *boardState) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.jobs)
}

// Candidates returns a copy of the visible candidate list.
func (s *boardState) Candidates() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCandidates(s.candidates)
}

func (s *boardState) setJobs(jobs []models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = cloneJobs(jobs)
}

func (s *boardState) setCandidates(cands []models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = cloneCandidates(cands)
}

// snapshotJobs returns an immutable copy of the job list for rollback.
func (s *boardState) snapshotJobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.jobs)
}

// snapshotCandidates returns an immutable copy of the candidate list.
func (s *boardState) snapshotCandidates() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCandidates(s.candidates)
}

func (s *boardState) jobIndex(id int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, j := range s.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}

func (s *boardState) jobByID(id int64) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.ID == id {
			return j.Clone(), true
		}
	}
	return models.Job{}, false
}

func (s *boardState) candidateByID(id int64) (models.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return models.Candidate{}, false
}

// moveJob applies the optimistic reorder: remove the job at from, reinsert at
// to, and reassign positions so the visible list mirrors what the store will
// produce.
func (s *boardState) moveJob(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := s.jobs[from]
	rest := append([]models.Job{}, s.jobs[:from]...)
	rest = append(rest, s.jobs[from+1:]...)

	jobs := append([]models.Job{}, rest[:to]...)
	jobs = append(jobs, moved)
	jobs = append(jobs, rest[to:]...)

	for i := range jobs {
		jobs[i].Order = i
	}
	s.jobs = jobs
}

// patchJob replaces one visible job in place.
func (s *boardState) patchJob(updated models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, j := range s.jobs {
		if j.ID == updated.ID {
			s.jobs[i] = updated.Clone()
			return
		}
	}
}

// appendJob adds a server-confirmed job to the visible list.
func (s *boardState) appendJob(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job.Clone())
}

// patchCandidateStage updates one visible candidate's stage only.
func (s *boardState) patchCandidateStage(id int64, stage models.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.candidates {
		if c.ID == id {
			s.candidates[i].Stage = stage
			return
		}
	}
}

// patchCandidate replaces one visible candidate with the authoritative record.
func (s *boardState) patchCandidate(updated models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.candidates {
		if c.ID == updated.ID {
			s.candidates[i] = updated
			return
		}
	}
}
