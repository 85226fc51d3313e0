// Package store is the local persistent store that stands in for a remote
// server: typed record tables with auto-assigned ids behind a single mutex.
// All operations are atomic with respect to a single record; there are no
// cross-record transactions. Reads and writes exchange deep copies so callers
// never alias table memory.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/models"
)

// Store owns all durable state for the simulated backend.
type Store struct {
	mu sync.Mutex

	jobs         map[int64]models.Job
	candidates   map[int64]models.Candidate
	assessments  map[int64]models.Assessment
	responses    map[int64]models.Response
	stageHistory map[int64]models.StageHistoryEntry
	notes        map[int64]models.Note

	// Per-table id sequences, mirroring auto-increment keys.
	seq map[string]int64

	// now is injected so audit timestamps are deterministic in tests.
	now func() time.Time
}

// Option adjusts a Store at construction time.
type Option func(*Store)

// WithClock overrides the timestamp source used for derived records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		jobs:         make(map[int64]models.Job),
		candidates:   make(map[int64]models.Candidate),
		assessments:  make(map[int64]models.Assessment),
		responses:    make(map[int64]models.Response),
		stageHistory: make(map[int64]models.StageHistoryEntry),
		notes:        make(map[int64]models.Note),
		seq:          make(map[string]int64),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// ==========================
// Jobs
// ==========================

func (s *Store) GetJob(id int64) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, stderrors.NewNotFoundError("job", id)
	}
	return job.Clone(), nil
}

// ListJobs returns jobs matching the filter, sorted by board order.
func (s *Store) ListJobs(filter models.JobFilter) []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Title)) {
			continue
		}
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CreateJob assigns an id and a board position at the end of the list. Slug
// uniqueness is the writer's responsibility, not the store's.
func (s *Store) CreateJob(job models.Job) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job = job.Clone()
	job.ID = s.nextID("jobs")
	job.Order = len(s.jobs)
	s.jobs[job.ID] = job
	return job.Clone()
}

func (s *Store) UpdateJob(id int64, patch models.JobPatch) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, stderrors.NewNotFoundError("job", id)
	}
	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Slug != nil {
		job.Slug = *patch.Slug
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Order != nil {
		job.Order = *patch.Order
	}
	if patch.Tags != nil {
		job.Tags = append([]string(nil), (*patch.Tags)...)
	}
	s.jobs[id] = job
	return job.Clone(), nil
}

// ReorderJob moves a job to targetIndex within the order-sorted job set and
// reassigns order values for the whole set. Order values are only ever
// reassigned wholesale here, keeping them a strict total order.
func (s *Store) ReorderJob(id int64, targetIndex int) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return nil, stderrors.NewNotFoundError("job", id)
	}

	ordered := make([]models.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		ordered = append(ordered, job)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].ID < ordered[j].ID
	})

	from := -1
	for i, job := range ordered {
		if job.ID == id {
			from = i
			break
		}
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex >= len(ordered) {
		targetIndex = len(ordered) - 1
	}

	moved := ordered[from]
	ordered = append(ordered[:from], ordered[from+1:]...)
	ordered = append(ordered[:targetIndex], append([]models.Job{moved}, ordered[targetIndex:]...)...)

	out := make([]models.Job, 0, len(ordered))
	for i, job := range ordered {
		job.Order = i
		s.jobs[job.ID] = job
		out = append(out, job.Clone())
	}
	return out, nil
}

// ==========================
// Candidates
// ==========================

func (s *Store) GetCandidate(id int64) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cand, ok := s.candidates[id]
	if !ok {
		return models.Candidate{}, stderrors.NewNotFoundError("candidate", id)
	}
	return cand, nil
}

func (s *Store) ListCandidates(filter models.CandidateFilter) []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Candidate, 0, len(s.candidates))
	for _, cand := range s.candidates {
		if filter.Stage != "" && cand.Stage != filter.Stage {
			continue
		}
		if filter.JobID != 0 && cand.JobID != filter.JobID {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(cand.Name), q) &&
				!strings.Contains(strings.ToLower(cand.Email), q) {
				continue
			}
		}
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateCandidate(cand models.Candidate) models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	cand.ID = s.nextID("candidates")
	s.candidates[cand.ID] = cand
	return cand
}

// ==========================
// Assessments
// ==========================

func (s *Store) GetAssessment(id int64) (models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assessments[id]
	if !ok {
		return models.Assessment{}, stderrors.NewNotFoundError("assessment", id)
	}
	return a.Clone(), nil
}

// GetAssessmentForJob returns the first assessment attached to jobID. At most
// one exists by convention.
func (s *Store) GetAssessmentForJob(jobID int64) (models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Assessment
	for _, a := range s.assessments {
		if a.JobID == jobID && (found == nil || a.ID < found.ID) {
			match := a
			found = &match
		}
	}
	if found == nil {
		return models.Assessment{}, stderrors.NewNotFoundError("assessment", jobID)
	}
	return found.Clone(), nil
}

func (s *Store) ListAssessments() []models.Assessment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Assessment, 0, len(s.assessments))
	for _, a := range s.assessments {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateAssessment(a models.Assessment) models.Assessment {
	s.mu.Lock()
	defer s.mu.Unlock()

	a = a.Clone()
	a.ID = s.nextID("assessments")
	s.assessments[a.ID] = a
	return a.Clone()
}

func (s *Store) UpdateAssessment(id int64, a models.Assessment) (models.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assessments[id]; !ok {
		return models.Assessment{}, stderrors.NewNotFoundError("assessment", id)
	}
	a = a.Clone()
	a.ID = id
	s.assessments[id] = a
	return a.Clone(), nil
}

// ==========================
// Responses
// ==========================

// CreateResponse appends a submitted answer document. Responses are
// append-only; there is no update path.
func (s *Store) CreateResponse(r models.Response) models.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	r = r.Clone()
	r.ID = s.nextID("responses")
	s.responses[r.ID] = r
	return r.Clone()
}

func (s *Store) ListResponses(assessmentID int64) []models.Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Response, 0)
	for _, r := range s.responses {
		if assessmentID != 0 && r.AssessmentID != assessmentID {
			continue
		}
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ==========================
// Notes
// ==========================

// CreateNote appends an immutable note with a store-side timestamp.
func (s *Store) CreateNote(candidateID int64, author, content string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.candidates[candidateID]; !ok {
		return models.Note{}, stderrors.NewNotFoundError("candidate", candidateID)
	}
	if author == "" {
		author = "Anonymous"
	}
	note := models.Note{
		ID:          s.nextID("notes"),
		CandidateID: candidateID,
		Author:      author,
		Content:     content,
		Timestamp:   s.now(),
	}
	s.notes[note.ID] = note
	return note, nil
}

// Timeline returns the merged stage history and notes for one candidate,
// newest first. Ties fall back to ids so the order is stable.
func (s *Store) Timeline(candidateID int64) []models.TimelineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.TimelineItem, 0)
	for _, entry := range s.stageHistory {
		if entry.CandidateID != candidateID {
			continue
		}
		e := entry
		out = append(out, models.TimelineItem{
			Type:      models.TimelineStageChange,
			Timestamp: e.Timestamp,
			Stage:     &e,
		})
	}
	for _, note := range s.notes {
		if note.CandidateID != candidateID {
			continue
		}
		n := note
		out = append(out, models.TimelineItem{
			Type:      models.TimelineNote,
			Timestamp: n.Timestamp,
			Note:      &n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return itemID(out[i]) > itemID(out[j])
	})
	return out
}

func itemID(item models.TimelineItem) int64 {
	if item.Stage != nil {
		return item.Stage.ID
	}
	if item.Note != nil {
		return item.Note.ID
	}
	return 0
}

// Counts reports table sizes, used for seeding checks and logging.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]int{
		"jobs":         len(s.jobs),
		"candidates":   len(s.candidates),
		"assessments":  len(s.assessments),
		"responses":    len(s.responses),
		"stageHistory": len(s.stageHistory),
		"notes":        len(s.notes),
	}
}
