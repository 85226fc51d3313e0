// internal/transport/client.go
package transport

import (
	"context"
	"math/rand"

	"talentflow-backend/internal/common/logger"
	"talentflow-backend/internal/models"
	"talentflow-backend/internal/store"
)

// Client is the logical request surface the UI layer consumes. Every method
// goes through the unreliable transport; callers must treat a write failure
// as "no state changed" and reads as eventually consistent with the last
// successful write.
type Client struct {
	t     *Transport
	store *store.Store
}

func NewClient(cfg Config, st *store.Store, src rand.Source, log logger.Logger) *Client {
	return &Client{
		t:     New(cfg, src, log),
		store: st,
	}
}

// ==========================
// Jobs
// ==========================

func (c *Client) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	var out []models.Job
	err := c.t.do(OpRead, "jobs.list", func() error {
		out = c.store.ListJobs(filter)
		return nil
	})
	return out, err
}

func (c *Client) GetJob(ctx context.Context, id int64) (models.Job, error) {
	var out models.Job
	err := c.t.do(OpRead, "jobs.get", func() error {
		var err error
		out, err = c.store.GetJob(id)
		return err
	})
	return out, err
}

func (c *Client) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	var out models.Job
	err := c.t.do(OpWrite, "jobs.create", func() error {
		out = c.store.CreateJob(job)
		return nil
	})
	return out, err
}

func (c *Client) UpdateJob(ctx context.Context, id int64, patch models.JobPatch) (models.Job, error) {
	var out models.Job
	err := c.t.do(OpWrite, "jobs.update", func() error {
		var err error
		out, err = c.store.UpdateJob(id, patch)
		return err
	})
	return out, err
}

// ReorderJob returns the full reordered job list so the caller can reconcile
// its visible state wholesale rather than merging order values.
func (c *Client) ReorderJob(ctx context.Context, id int64, targetIndex int) ([]models.Job, error) {
	var out []models.Job
	err := c.t.do(OpWrite, "jobs.reorder", func() error {
		var err error
		out, err = c.store.ReorderJob(id, targetIndex)
		return err
	})
	return out, err
}

// ==========================
// Candidates
// ==========================

func (c *Client) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, error) {
	var out []models.Candidate
	err := c.t.do(OpRead, "candidates.list", func() error {
		out = c.store.ListCandidates(filter)
		return nil
	})
	return out, err
}

func (c *Client) GetCandidate(ctx context.Context, id int64) (models.Candidate, error) {
	var out models.Candidate
	err := c.t.do(OpRead, "candidates.get", func() error {
		var err error
		out, err = c.store.GetCandidate(id)
		return err
	})
	return out, err
}

// UpdateCandidateStage performs the stage write; the store appends the audit
// entry as an inseparable side effect of a successful write. A rejected write
// creates no entry.
func (c *Client) UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) (models.Candidate, error) {
	var out models.Candidate
	err := c.t.do(OpWrite, "candidates.stage", func() error {
		var err error
		out, err = c.store.UpdateCandidateStage(id, stage)
		return err
	})
	return out, err
}

// Timeline returns the merged stage history and notes for one candidate,
// newest first.
func (c *Client) Timeline(ctx context.Context, candidateID int64) ([]models.TimelineItem, error) {
	var out []models.TimelineItem
	err := c.t.do(OpRead, "candidates.timeline", func() error {
		out = c.store.Timeline(candidateID)
		return nil
	})
	return out, err
}

func (c *Client) CreateNote(ctx context.Context, candidateID int64, author, content string) (models.Note, error) {
	var out models.Note
	err := c.t.do(OpWrite, "notes.create", func() error {
		var err error
		out, err = c.store.CreateNote(candidateID, author, content)
		return err
	})
	return out, err
}

// ==========================
// Assessments and responses
// ==========================

func (c *Client) GetAssessmentForJob(ctx context.Context, jobID int64) (models.Assessment, error) {
	var out models.Assessment
	err := c.t.do(OpRead, "assessments.get", func() error {
		var err error
		out, err = c.store.GetAssessmentForJob(jobID)
		return err
	})
	return out, err
}

func (c *Client) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	var out []models.Assessment
	err := c.t.do(OpRead, "assessments.list", func() error {
		out = c.store.ListAssessments()
		return nil
	})
	return out, err
}

func (c *Client) CreateAssessment(ctx context.Context, a models.Assessment) (models.Assessment, error) {
	var out models.Assessment
	err := c.t.do(OpWrite, "assessments.create", func() error {
		out = c.store.CreateAssessment(a)
		return nil
	})
	return out, err
}

func (c *Client) UpdateAssessment(ctx context.Context, id int64, a models.Assessment) (models.Assessment, error) {
	var out models.Assessment
	err := c.t.do(OpWrite, "assessments.update", func() error {
		var err error
		out, err = c.store.UpdateAssessment(id, a)
		return err
	})
	return out, err
}

func (c *Client) ListResponses(ctx context.Context, assessmentID int64) ([]models.Response, error) {
	var out []models.Response
	err := c.t.do(OpRead, "responses.list", func() error {
		out = c.store.ListResponses(assessmentID)
		return nil
	})
	return out, err
}

func (c *Client) CreateResponse(ctx context.Context, r models.Response) (models.Response, error) {
	var out models.Response
	err := c.t.do(OpWrite, "responses.create", func() error {
		out = c.store.CreateResponse(r)
		return nil
	})
	return out, err
}
