// internal/models/candidate.go
package models

// Stage is a candidate's position in the hiring pipeline.
type Stage string

const (
	StageApplied   Stage = "applied"
	StageScreening Stage = "screening"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
	StageHired     Stage = "hired"
)

// Stages lists the pipeline columns in board order.
var Stages = []Stage{StageApplied, StageScreening, StageInterview, StageOffer, StageHired}

// ValidStage reports whether s is a recognized pipeline stage.
func ValidStage(s Stage) bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

type Candidate struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Stage Stage  `json:"stage"`
	// JobID is a non-owning reference; job deletion is out of scope.
	JobID int64 `json:"jobId"`
}

// CandidateFilter narrows ListCandidates results. Zero values match everything.
type CandidateFilter struct {
	Stage Stage
	JobID int64
	// Query matches name or email, case-insensitive substring.
	Query string
}
