// Package coordinator orchestrates optimistic mutations over the unreliable
// transport. Each mutation runs Idle -> Optimistic -> {Reconciled, RolledBack}:
// snapshot the affected client-visible collection, apply the intended change
// synchronously, issue the write, then either reconcile with the
// authoritative record or restore the snapshot wholesale and surface a
// transient notice. This is the only layer that translates a transport
// failure into a visible state change; nothing here retries automatically.
package coordinator

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/common/logger"
	"talentflow-backend/internal/common/metrics"
	"talentflow-backend/internal/common/observability"
	"talentflow-backend/internal/models"
)

// Backend is the slice of the transport client the coordinator drives.
type Backend interface {
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	CreateJob(ctx context.Context, job models.Job) (models.Job, error)
	UpdateJob(ctx context.Context, id int64, patch models.JobPatch) (models.Job, error)
	ReorderJob(ctx context.Context, id int64, targetIndex int) ([]models.Job, error)
	ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, error)
	UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) (models.Candidate, error)
	CreateAssessment(ctx context.Context, a models.Assessment) (models.Assessment, error)
	UpdateAssessment(ctx context.Context, id int64, a models.Assessment) (models.Assessment, error)
	CreateResponse(ctx context.Context, r models.Response) (models.Response, error)
	CreateNote(ctx context.Context, candidateID int64, author, content string) (models.Note, error)
}

const (
	flowReorder  = "reorder"
	flowArchive  = "archive_toggle"
	flowStage    = "stage_transition"
	flowCreate   = "create_job"
	flowAssess   = "save_assessment"
	flowResponse = "submit_response"
	flowNote     = "add_note"
)

// Config carries coordinator settings.
type Config struct {
	NoticeTTL time.Duration
}

type entityKey struct {
	kind string
	id   int64
}

// Coordinator owns the client-visible state and serializes mutations per
// entity: a second mutation targeting the same entity blocks until the first
// has resolved. Mutations on disjoint entities run concurrently.
type Coordinator struct {
	backend Backend
	state   *boardState
	notices *noticeBoard
	logger  logger.Logger
	obs     *observability.Observability

	lockMu sync.Mutex
	locks  map[entityKey]*sync.Mutex
}

func New(cfg Config, backend Backend, log logger.Logger, obs *observability.Observability) *Coordinator {
	if cfg.NoticeTTL == 0 {
		cfg.NoticeTTL = 3 * time.Second
	}
	return &Coordinator{
		backend: backend,
		state:   &boardState{},
		notices: newNoticeBoard(cfg.NoticeTTL, nil),
		logger:  log.WithFields(map[string]interface{}{"component": "coordinator"}),
		obs:     obs,
		locks:   make(map[entityKey]*sync.Mutex),
	}
}

// lockEntity acquires the per-entity mutation lock and returns the release.
func (c *Coordinator) lockEntity(kind string, id int64) func() {
	key := entityKey{kind: kind, id: id}

	c.lockMu.Lock()
	mu, ok := c.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[key] = mu
	}
	c.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Load fetches the authoritative jobs and candidates into the visible state.
func (c *Coordinator) Load(ctx context.Context) error {
	jobs, err := c.backend.ListJobs(ctx, models.JobFilter{})
	if err != nil {
		return err
	}
	cands, err := c.backend.ListCandidates(ctx, models.CandidateFilter{})
	if err != nil {
		return err
	}
	c.state.setJobs(jobs)
	c.state.setCandidates(cands)
	return nil
}

// Jobs returns the client-visible job list.
func (c *Coordinator) Jobs() []models.Job { return c.state.Jobs() }

// Candidates returns the client-visible candidate list.
func (c *Coordinator) Candidates() []models.Candidate { return c.state.Candidates() }

// Notices returns the active transient notices, pruning expired ones.
func (c *Coordinator) Notices() []Notice { return c.notices.active() }

// Dismiss removes a notice before its TTL elapses.
func (c *Coordinator) Dismiss(noticeID string) { c.notices.dismiss(noticeID) }

func (c *Coordinator) recordOutcome(ctx context.Context, flow, outcome string, started time.Time) {
	switch outcome {
	case "reconciled":
		metrics.MutationsCommitted.WithLabelValues(flow).Inc()
	case "rolled_back":
		metrics.MutationsRolledBack.WithLabelValues(flow).Inc()
	case "noop":
		metrics.MutationNoOps.WithLabelValues(flow).Inc()
	}
	if c.obs != nil {
		c.obs.RecordMutation(ctx, flow, outcome)
		if outcome != "noop" {
			c.obs.RecordMutationDuration(ctx, time.Since(started), flow)
		}
	}
}

// ==========================
// Flow 1: reorder
// ==========================

// ReorderJob moves a job to targetIndex among its siblings. The visible list
// is reordered before the transport call resolves; a failed write restores
// the full prior order, not just the moved item. A target equal to the
// current position, or one that resolves to no sibling, is a no-op with zero
// transport calls.
func (c *Coordinator) ReorderJob(ctx context.Context, jobID int64, targetIndex int) error {
	unlock := c.lockEntity("job", jobID)
	defer unlock()

	started := time.Now()

	from := c.state.jobIndex(jobID)
	if from < 0 || targetIndex < 0 || targetIndex >= len(c.state.Jobs()) || targetIndex == from {
		c.recordOutcome(ctx, flowReorder, "noop", started)
		return nil
	}

	snapshot := c.state.snapshotJobs()
	c.state.moveJob(from, targetIndex)

	confirmed, err := c.backend.ReorderJob(ctx, jobID, targetIndex)
	if err != nil {
		c.state.setJobs(snapshot)
		c.recordOutcome(ctx, flowReorder, "rolled_back", started)
		c.failMutation(flowReorder, err, "Failed to reorder jobs. Changes have been reverted.")
		return err
	}

	c.state.setJobs(confirmed)
	c.recordOutcome(ctx, flowReorder, "reconciled", started)
	return nil
}

// ==========================
// Flow 2: archive toggle
// ==========================

// ToggleArchive flips a job between archived and open. Optimistic apply and
// rollback touch only that job's status field; rollback still restores the
// exact pre-mutation snapshot of the collection.
func (c *Coordinator) ToggleArchive(ctx context.Context, jobID int64) error {
	unlock := c.lockEntity("job", jobID)
	defer unlock()

	started := time.Now()

	job, ok := c.state.jobByID(jobID)
	if !ok {
		c.recordOutcome(ctx, flowArchive, "noop", started)
		return nil
	}

	newStatus := models.JobStatusArchived
	if job.Status == models.JobStatusArchived {
		newStatus = models.JobStatusOpen
	}

	snapshot := c.state.snapshotJobs()
	optimistic := job
	optimistic.Status = newStatus
	c.state.patchJob(optimistic)

	confirmed, err := c.backend.UpdateJob(ctx, jobID, models.JobPatch{Status: &newStatus})
	if err != nil {
		c.state.setJobs(snapshot)
		c.recordOutcome(ctx, flowArchive, "rolled_back", started)
		c.failMutation(flowArchive, err, "Failed to update job status. Changes have been reverted.")
		return err
	}

	c.state.patchJob(confirmed)
	c.recordOutcome(ctx, flowArchive, "reconciled", started)
	return nil
}

// ==========================
// Flow 3: stage transition
// ==========================

// MoveStage moves a candidate to a new pipeline stage. A successful write
// appends the audit entry store-side; a failed write creates no entry and the
// visible stage is rolled back. An unrecognized stage or a move to the
// current stage aborts before any transport call.
func (c *Coordinator) MoveStage(ctx context.Context, candidateID int64, stage models.Stage) error {
	unlock := c.lockEntity("candidate", candidateID)
	defer unlock()

	started := time.Now()

	cand, ok := c.state.candidateByID(candidateID)
	if !ok || !models.ValidStage(stage) || cand.Stage == stage {
		c.recordOutcome(ctx, flowStage, "noop", started)
		return nil
	}

	snapshot := c.state.snapshotCandidates()
	c.state.patchCandidateStage(candidateID, stage)

	confirmed, err := c.backend.UpdateCandidateStage(ctx, candidateID, stage)
	if err != nil {
		c.state.setCandidates(snapshot)
		c.recordOutcome(ctx, flowStage, "rolled_back", started)
		c.failMutation(flowStage, err, "Failed to update candidate. Changes have been reverted.")
		return err
	}

	c.state.patchCandidate(confirmed)
	c.recordOutcome(ctx, flowStage, "reconciled", started)
	return nil
}

// ==========================
// Non-optimistic writes
// ==========================

var slugStrip = regexp.MustCompile(`[^\w\s-]`)
var slugSpaces = regexp.MustCompile(`\s+`)

// Slugify derives a URL-friendly identifier from a job title.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	return slugSpaces.ReplaceAllString(s, "-")
}

// CreateJob validates the draft against visible state, then issues the write.
// Validation failures are rejected before any transport call, so no rollback
// is needed. On success the server-assigned record is appended to the
// visible list.
func (c *Coordinator) CreateJob(ctx context.Context, draft models.Job) (models.Job, error) {
	started := time.Now()

	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" {
		c.recordOutcome(ctx, flowCreate, "noop", started)
		return models.Job{}, stderrors.NewValidationError("title is required")
	}
	if draft.Slug == "" {
		draft.Slug = Slugify(draft.Title)
	}
	if draft.Status == "" {
		draft.Status = models.JobStatusOpen
	}
	if !models.ValidJobStatus(draft.Status) {
		c.recordOutcome(ctx, flowCreate, "noop", started)
		return models.Job{}, stderrors.NewValidationError("unknown job status: " + string(draft.Status))
	}
	for _, j := range c.state.Jobs() {
		if j.Slug == draft.Slug {
			c.recordOutcome(ctx, flowCreate, "noop", started)
			return models.Job{}, stderrors.NewSlugTakenError(draft.Slug)
		}
	}

	created, err := c.backend.CreateJob(ctx, draft)
	if err != nil {
		c.recordOutcome(ctx, flowCreate, "rolled_back", started)
		c.failMutation(flowCreate, err, "Failed to create job.")
		return models.Job{}, err
	}

	c.state.appendJob(created)
	c.recordOutcome(ctx, flowCreate, "reconciled", started)
	return created, nil
}

// SaveAssessment validates the assessment structure, then creates or updates
// it depending on whether it already has an id.
func (c *Coordinator) SaveAssessment(ctx context.Context, a models.Assessment, validate func(models.Assessment) error) (models.Assessment, error) {
	started := time.Now()

	if validate != nil {
		if err := validate(a); err != nil {
			c.recordOutcome(ctx, flowAssess, "noop", started)
			return models.Assessment{}, err
		}
	}

	var saved models.Assessment
	var err error
	if a.ID == 0 {
		saved, err = c.backend.CreateAssessment(ctx, a)
	} else {
		saved, err = c.backend.UpdateAssessment(ctx, a.ID, a)
	}
	if err != nil {
		c.recordOutcome(ctx, flowAssess, "rolled_back", started)
		c.failMutation(flowAssess, err, "Failed to save assessment.")
		return models.Assessment{}, err
	}

	c.recordOutcome(ctx, flowAssess, "reconciled", started)
	return saved, nil
}

// SubmitResponse validates the answers, then appends the response document.
func (c *Coordinator) SubmitResponse(ctx context.Context, r models.Response, validate func(models.Response) error) (models.Response, error) {
	started := time.Now()

	if validate != nil {
		if err := validate(r); err != nil {
			c.recordOutcome(ctx, flowResponse, "noop", started)
			return models.Response{}, err
		}
	}

	saved, err := c.backend.CreateResponse(ctx, r)
	if err != nil {
		c.recordOutcome(ctx, flowResponse, "rolled_back", started)
		c.failMutation(flowResponse, err, "Failed to submit response.")
		return models.Response{}, err
	}

	c.recordOutcome(ctx, flowResponse, "reconciled", started)
	return saved, nil
}

// AddNote appends an immutable note to a candidate's timeline.
func (c *Coordinator) AddNote(ctx context.Context, candidateID int64, author, content string) (models.Note, error) {
	started := time.Now()

	if strings.TrimSpace(content) == "" {
		c.recordOutcome(ctx, flowNote, "noop", started)
		return models.Note{}, stderrors.NewValidationError("note content is required")
	}

	note, err := c.backend.CreateNote(ctx, candidateID, author, content)
	if err != nil {
		c.recordOutcome(ctx, flowNote, "rolled_back", started)
		c.failMutation(flowNote, err, "Failed to add note.")
		return models.Note{}, err
	}

	c.recordOutcome(ctx, flowNote, "reconciled", started)
	return note, nil
}

// failMutation logs the failure and records the user-visible notice. Only
// transient transport failures produce a notice; a NotFound is surfaced to
// the caller directly.
func (c *Coordinator) failMutation(flow string, err error, message string) {
	c.logger.WithError(err).Warn("mutation failed", map[string]interface{}{
		"flow": flow,
		"code": string(stderrors.CodeOf(err)),
	})
	if stderrors.IsTransient(err) {
		c.notices.push(stderrors.CodeOf(err), message)
	}
}
