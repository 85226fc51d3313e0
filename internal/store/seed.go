// internal/store/seed.go
package store

import (
	"fmt"
	"math/rand"
	"strings"

	"talentflow-backend/internal/models"
)

var seedTitles = []string{
	"Software Engineer",
	"Product Manager",
	"UX Designer",
	"Data Scientist",
	"Recruiter",
}

var seedStatuses = []models.JobStatus{
	models.JobStatusOpen,
	models.JobStatusClosed,
	models.JobStatusDraft,
}

// Seed populates the store with an initial job board and candidate pool.
// It is idempotent: a store that already holds jobs is left untouched.
// rng is injected so seeded data is reproducible.
func (s *Store) Seed(rng *rand.Rand, jobCount, candidateCount int) {
	if s.Counts()["jobs"] > 0 {
		return
	}

	jobs := make([]models.Job, 0, jobCount)
	for i := 0; i < jobCount; i++ {
		title := seedTitles[rng.Intn(len(seedTitles))]
		slug := fmt.Sprintf("%s-%d", strings.ReplaceAll(strings.ToLower(title), " ", "-"), i)
		job := s.CreateJob(models.Job{
			Title:  title,
			Slug:   slug,
			Status: seedStatuses[rng.Intn(len(seedStatuses))],
			Tags:   []string{"tech", "full-time"},
		})
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return
	}

	for i := 0; i < candidateCount; i++ {
		s.CreateCandidate(models.Candidate{
			Name:  fmt.Sprintf("Candidate %d", i+1),
			Email: fmt.Sprintf("candidate%d@example.com", i+1),
			Stage: models.Stages[rng.Intn(len(models.Stages))],
			JobID: jobs[rng.Intn(len(jobs))].ID,
		})
	}
}
