// internal/coordinator/coordinator_test.go
package coordinator

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-backend/internal/assessment"
	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/common/logger"
	"talentflow-backend/internal/models"
	"talentflow-backend/internal/store"
	"talentflow-backend/internal/transport"
)

// ==========================
// Test Helper Functions
// ==========================

// countingBackend wraps the real transport client and records how many calls
// reach the transport, so no-op tests can assert a count of zero.
type countingBackend struct {
	inner Backend

	mu    sync.Mutex
	calls map[string]int
}

func newCountingBackend(inner Backend) *countingBackend {
	return &countingBackend{inner: inner, calls: make(map[string]int)}
}

func (b *countingBackend) count(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
}

func (b *countingBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *countingBackend) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	b.count("ListJobs")
	return b.inner.ListJobs(ctx, filter)
}

func (b *countingBackend) CreateJob(ctx context.Context, job models.Job) (models.Job, error) {
	b.count("CreateJob")
	return b.inner.CreateJob(ctx, job)
}

func (b *countingBackend) UpdateJob(ctx context.Context, id int64, patch models.JobPatch) (models.Job, error) {
	b.count("UpdateJob")
	return b.inner.UpdateJob(ctx, id, patch)
}

func (b *countingBackend) ReorderJob(ctx context.Context, id int64, targetIndex int) ([]models.Job, error) {
	b.count("ReorderJob")
	return b.inner.ReorderJob(ctx, id, targetIndex)
}

func (b *countingBackend) ListCandidates(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, error) {
	b.count("ListCandidates")
	return b.inner.ListCandidates(ctx, filter)
}

func (b *countingBackend) UpdateCandidateStage(ctx context.Context, id int64, stage models.Stage) (models.Candidate, error) {
	b.count("UpdateCandidateStage")
	return b.inner.UpdateCandidateStage(ctx, id, stage)
}

func (b *countingBackend) CreateAssessment(ctx context.Context, a models.Assessment) (models.Assessment, error) {
	b.count("CreateAssessment")
	return b.inner.CreateAssessment(ctx, a)
}

func (b *countingBackend) UpdateAssessment(ctx context.Context, id int64, a models.Assessment) (models.Assessment, error) {
	b.count("UpdateAssessment")
	return b.inner.UpdateAssessment(ctx, id, a)
}

func (b *countingBackend) CreateResponse(ctx context.Context, r models.Response) (models.Response, error) {
	b.count("CreateResponse")
	return b.inner.CreateResponse(ctx, r)
}

func (b *countingBackend) CreateNote(ctx context.Context, candidateID int64, author, content string) (models.Note, error) {
	b.count("CreateNote")
	return b.inner.CreateNote(ctx, candidateID, author, content)
}

type testFixture struct {
	coord   *Coordinator
	backend *countingBackend
	store   *store.Store
	jobs    []models.Job
	cands   []models.Candidate
}

// createTestFixture builds a coordinator over a real store and transport with
// negligible latency. failureRate near 1 makes every write fail
// deterministically; 0 makes every write succeed.
func createTestFixture(t *testing.T, failureRate float64) *testFixture {
	t.Helper()

	st := store.New()
	jobA := st.CreateJob(models.Job{Title: "Software Engineer", Slug: "software-engineer", Status: models.JobStatusOpen})
	jobB := st.CreateJob(models.Job{Title: "Recruiter", Slug: "recruiter", Status: models.JobStatusOpen})
	jobC := st.CreateJob(models.Job{Title: "UX Designer", Slug: "ux-designer", Status: models.JobStatusArchived})

	candA := st.CreateCandidate(models.Candidate{Name: "Ada Lovelace", Email: "ada@example.com", Stage: models.StageApplied, JobID: jobA.ID})
	candB := st.CreateCandidate(models.Candidate{Name: "Grace Hopper", Email: "grace@example.com", Stage: models.StageScreening, JobID: jobB.ID})

	client := transport.NewClient(transport.Config{
		MinLatency:       0,
		MaxLatency:       time.Millisecond,
		WriteFailureRate: failureRate,
	}, st, rand.NewSource(1), logger.NewNoOpLogger())

	backend := newCountingBackend(client)
	coord := New(Config{NoticeTTL: time.Minute}, backend, logger.NewTestLogger(t), nil)

	require.NoError(t, coord.Load(context.Background()))
	backend.mu.Lock()
	backend.calls = make(map[string]int) // loading is not part of the mutation under test
	backend.mu.Unlock()

	return &testFixture{
		coord:   coord,
		backend: backend,
		store:   st,
		jobs:    []models.Job{jobA, jobB, jobC},
		cands:   []models.Candidate{candA, candB},
	}
}

const alwaysFail = 0.9999999

func visibleOrder(c *Coordinator) []int64 {
	jobs := c.Jobs()
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

// ==========================
// Load
// ==========================

func TestLoad_PopulatesVisibleState(t *testing.T) {
	f := createTestFixture(t, 0)

	assert.Len(t, f.coord.Jobs(), 3)
	assert.Len(t, f.coord.Candidates(), 2)
	assert.Equal(t, []int64{f.jobs[0].ID, f.jobs[1].ID, f.jobs[2].ID}, visibleOrder(f.coord))
}

// ==========================
// Reorder flow
// ==========================

func TestReorderJob_Reconciled(t *testing.T) {
	f := createTestFixture(t, 0)

	err := f.coord.ReorderJob(context.Background(), f.jobs[0].ID, 2)

	require.NoError(t, err)
	assert.Equal(t, []int64{f.jobs[1].ID, f.jobs[2].ID, f.jobs[0].ID}, visibleOrder(f.coord))
	for i, job := range f.coord.Jobs() {
		assert.Equal(t, i, job.Order)
	}

	// Visible state matches the authoritative store.
	assert.Equal(t, f.store.ListJobs(models.JobFilter{}), f.coord.Jobs())
	assert.Empty(t, f.coord.Notices())
}

func TestReorderJob_RolledBack(t *testing.T) {
	f := createTestFixture(t, alwaysFail)
	before := f.coord.Jobs()

	err := f.coord.ReorderJob(context.Background(), f.jobs[0].ID, 2)

	require.Error(t, err)
	assert.True(t, stderrors.IsTransient(err))

	// The exact pre-mutation collection is restored, not just the moved job.
	assert.Equal(t, before, f.coord.Jobs())

	notices := f.coord.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, stderrors.ErrCodeTransientWriteFailure, notices[0].Code)
}

func TestReorderJob_NoOps(t *testing.T) {
	tests := []struct {
		name   string
		jobID  int64
		target int
	}{
		{"unknown job", 999, 1},
		{"same position", 0, 0}, // jobID filled in below
		{"negative target", 0, -1},
		{"target beyond end", 0, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestFixture(t, 0)
			jobID := tt.jobID
			if jobID == 0 {
				jobID = f.jobs[0].ID
			}
			before := f.coord.Jobs()

			err := f.coord.ReorderJob(context.Background(), jobID, tt.target)

			require.NoError(t, err)
			assert.Equal(t, before, f.coord.Jobs())
			assert.Zero(t, f.backend.total())
			assert.Empty(t, f.coord.Notices())
		})
	}
}

func TestReorderJob_TwoJobSwap(t *testing.T) {
	st := store.New()
	a := st.CreateJob(models.Job{Title: "A", Slug: "a", Status: models.JobStatusOpen})
	b := st.CreateJob(models.Job{Title: "B", Slug: "b", Status: models.JobStatusOpen})

	client := transport.NewClient(transport.Config{MaxLatency: time.Millisecond}, st, rand.NewSource(1), logger.NewNoOpLogger())
	coord := New(Config{}, client, logger.NewNoOpLogger(), nil)
	require.NoError(t, coord.Load(context.Background()))

	require.NoError(t, coord.ReorderJob(context.Background(), a.ID, 1))

	jobs := coord.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, b.ID, jobs[0].ID)
	assert.Equal(t, 0, jobs[0].Order)
	assert.Equal(t, a.ID, jobs[1].ID)
	assert.Equal(t, 1, jobs[1].Order)
}

// ==========================
// Archive toggle flow
// ==========================

func TestToggleArchive_BothDirections(t *testing.T) {
	f := createTestFixture(t, 0)
	ctx := context.Background()

	// open -> archived
	require.NoError(t, f.coord.ToggleArchive(ctx, f.jobs[0].ID))
	job, ok := f.coord.state.jobByID(f.jobs[0].ID)
	require.True(t, ok)
	assert.Equal(t, models.JobStatusArchived, job.Status)

	// archived -> open
	require.NoError(t, f.coord.ToggleArchive(ctx, f.jobs[2].ID))
	job, ok = f.coord.state.jobByID(f.jobs[2].ID)
	require.True(t, ok)
	assert.Equal(t, models.JobStatusOpen, job.Status)

	// The store agrees.
	stored, err := f.store.GetJob(f.jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusArchived, stored.Status)
}

func TestToggleArchive_RolledBack(t *testing.T) {
	f := createTestFixture(t, alwaysFail)
	before := f.coord.Jobs()

	err := f.coord.ToggleArchive(context.Background(), f.jobs[0].ID)

	require.Error(t, err)
	assert.True(t, stderrors.IsTransient(err))
	assert.Equal(t, before, f.coord.Jobs())

	stored, err := f.store.GetJob(f.jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, stored.Status)

	require.Len(t, f.coord.Notices(), 1)
}

func TestToggleArchive_UnknownJobIsNoOp(t *testing.T) {
	f := createTestFixture(t, 0)

	err := f.coord.ToggleArchive(context.Background(), 999)

	require.NoError(t, err)
	assert.Zero(t, f.backend.total())
}

// ==========================
// Stage transition flow
// ==========================

func TestMoveStage_ReconciledWithAuditEntry(t *testing.T) {
	f := createTestFixture(t, 0)

	err := f.coord.MoveStage(context.Background(), f.cands[0].ID, models.StageInterview)

	require.NoError(t, err)
	cand, ok := f.coord.state.candidateByID(f.cands[0].ID)
	require.True(t, ok)
	assert.Equal(t, models.StageInterview, cand.Stage)

	history := f.store.StageHistory(f.cands[0].ID)
	require.Len(t, history, 1)
	assert.Equal(t, models.StageApplied, history[0].PreviousStage)
	assert.Equal(t, models.StageInterview, history[0].NewStage)
}

func TestMoveStage_RolledBackWithoutAuditEntry(t *testing.T) {
	f := createTestFixture(t, alwaysFail)
	before := f.coord.Candidates()

	err := f.coord.MoveStage(context.Background(), f.cands[0].ID, models.StageOffer)

	require.Error(t, err)
	assert.True(t, stderrors.IsTransient(err))
	assert.Equal(t, before, f.coord.Candidates())

	// No audit entry for a failed write.
	assert.Empty(t, f.store.StageHistory(f.cands[0].ID))

	stored, err := f.store.GetCandidate(f.cands[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageApplied, stored.Stage)

	require.Len(t, f.coord.Notices(), 1)
}

func TestMoveStage_NoOps(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *testFixture) (int64, models.Stage)
	}{
		{"unknown candidate", func(f *testFixture) (int64, models.Stage) {
			return 999, models.StageOffer
		}},
		{"unknown stage", func(f *testFixture) (int64, models.Stage) {
			return f.cands[0].ID, models.Stage("limbo")
		}},
		{"same stage", func(f *testFixture) (int64, models.Stage) {
			return f.cands[0].ID, models.StageApplied
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestFixture(t, 0)
			id, stage := tt.setup(f)
			before := f.coord.Candidates()

			err := f.coord.MoveStage(context.Background(), id, stage)

			require.NoError(t, err)
			assert.Equal(t, before, f.coord.Candidates())
			assert.Zero(t, f.backend.total())
			assert.Empty(t, f.store.StageHistory(f.cands[0].ID))
		})
	}
}

// ==========================
// Per-entity serialization
// ==========================

func TestToggleArchive_ConcurrentTogglesSerialize(t *testing.T) {
	f := createTestFixture(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.coord.ToggleArchive(ctx, f.jobs[0].ID))
		}()
	}
	wg.Wait()

	// Two serialized toggles land back on the starting status, and the
	// visible state matches the store.
	stored, err := f.store.GetJob(f.jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, stored.Status)

	job, ok := f.coord.state.jobByID(f.jobs[0].ID)
	require.True(t, ok)
	assert.Equal(t, stored.Status, job.Status)
}

// ==========================
// Create job
// ==========================

func TestCreateJob_Success(t *testing.T) {
	f := createTestFixture(t, 0)

	created, err := f.coord.CreateJob(context.Background(), models.Job{Title: "Data Scientist"})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "data-scientist", created.Slug)
	assert.Equal(t, models.JobStatusOpen, created.Status)

	// Appended to the visible list.
	jobs := f.coord.Jobs()
	assert.Equal(t, created.ID, jobs[len(jobs)-1].ID)
}

func TestCreateJob_ValidationBeforeTransport(t *testing.T) {
	tests := []struct {
		name  string
		draft models.Job
		code  stderrors.ErrorCode
	}{
		{"empty title", models.Job{Title: "   "}, stderrors.ErrCodeValidationFailed},
		{"slug taken", models.Job{Title: "Software Engineer"}, stderrors.ErrCodeSlugTaken},
		{"unknown status", models.Job{Title: "X", Status: models.JobStatus("bogus")}, stderrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestFixture(t, 0)

			_, err := f.coord.CreateJob(context.Background(), tt.draft)

			require.Error(t, err)
			assert.Equal(t, tt.code, stderrors.CodeOf(err))
			assert.Zero(t, f.backend.total())
			assert.Len(t, f.coord.Jobs(), 3)
		})
	}
}

func TestCreateJob_TransportFailureLeavesListUnchanged(t *testing.T) {
	f := createTestFixture(t, alwaysFail)

	_, err := f.coord.CreateJob(context.Background(), models.Job{Title: "Data Scientist"})

	require.Error(t, err)
	assert.True(t, stderrors.IsTransient(err))
	assert.Len(t, f.coord.Jobs(), 3)
	require.Len(t, f.coord.Notices(), 1)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Software Engineer", "software-engineer"},
		{"  Senior  C++  Developer!  ", "senior-c-developer"},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

// ==========================
// Assessments, responses, notes
// ==========================

func TestSaveAssessment_CreateThenUpdate(t *testing.T) {
	f := createTestFixture(t, 0)
	ctx := context.Background()

	a := models.Assessment{
		JobID: f.jobs[0].ID,
		Title: "Screening",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionShortText, Text: "Why here?"},
		},
	}

	saved, err := f.coord.SaveAssessment(ctx, a, assessment.ValidateStructure)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	saved.Title = "Phone Screening"
	updated, err := f.coord.SaveAssessment(ctx, saved, assessment.ValidateStructure)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Phone Screening", updated.Title)
}

func TestSaveAssessment_InvalidStructureSkipsTransport(t *testing.T) {
	f := createTestFixture(t, 0)

	bad := models.Assessment{
		JobID: f.jobs[0].ID,
		Title: "Screening",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionSingleChoice, Text: "Pick one"}, // no options
		},
	}

	_, err := f.coord.SaveAssessment(context.Background(), bad, assessment.ValidateStructure)

	require.Error(t, err)
	assert.True(t, stderrors.IsValidation(err))
	assert.Zero(t, f.backend.total())
}

func TestSubmitResponse_ValidatedThenStored(t *testing.T) {
	f := createTestFixture(t, 0)
	ctx := context.Background()

	a := models.Assessment{
		JobID: f.jobs[0].ID,
		Title: "Screening",
		Questions: []models.Question{
			{ID: "q1", Type: models.QuestionShortText, Text: "Why here?", Validation: models.ValidationRules{Required: true}},
		},
	}
	saved, err := f.coord.SaveAssessment(ctx, a, assessment.ValidateStructure)
	require.NoError(t, err)

	validate := func(r models.Response) error {
		return assessment.ValidateAnswers(saved, r.Answers)
	}

	// Missing required answer is rejected before the transport.
	_, err = f.coord.SubmitResponse(ctx, models.Response{
		AssessmentID: saved.ID,
		CandidateID:  f.cands[0].ID,
		Answers:      map[string]interface{}{},
	}, validate)
	require.Error(t, err)
	assert.True(t, stderrors.IsValidation(err))

	stored, err := f.coord.SubmitResponse(ctx, models.Response{
		AssessmentID: saved.ID,
		CandidateID:  f.cands[0].ID,
		Answers:      map[string]interface{}{"q1": "the mission"},
	}, validate)
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
}

func TestAddNote(t *testing.T) {
	f := createTestFixture(t, 0)
	ctx := context.Background()

	_, err := f.coord.AddNote(ctx, f.cands[0].ID, "hr", "  ")
	require.Error(t, err)
	assert.True(t, stderrors.IsValidation(err))
	assert.Zero(t, f.backend.total())

	note, err := f.coord.AddNote(ctx, f.cands[0].ID, "hr", "strong phone screen")
	require.NoError(t, err)
	assert.Equal(t, "strong phone screen", note.Content)
}
