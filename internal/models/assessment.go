// internal/models/assessment.go
package models

// QuestionType is the tagged variant discriminator for assessment questions.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFileUpload   QuestionType = "file-upload"
)

// ValidQuestionType reports whether t is a recognized question variant.
func ValidQuestionType(t QuestionType) bool {
	switch t {
	case QuestionSingleChoice, QuestionMultiChoice, QuestionShortText,
		QuestionLongText, QuestionNumeric, QuestionFileUpload:
		return true
	}
	return false
}

// ValidationRules is the per-question rule set. Pointer fields are absent
// when the rule does not apply to the variant.
type ValidationRules struct {
	Required  bool     `json:"required,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}

// ConditionalRule shows a question only when another question's answer equals
// ExpectedValue. Resolution is a direct map lookup, never a graph traversal.
type ConditionalRule struct {
	QuestionID    string `json:"questionId"`
	ExpectedValue string `json:"expectedValue"`
}

type Question struct {
	ID          string           `json:"id"`
	Type        QuestionType     `json:"type"`
	Text        string           `json:"text"`
	Options     []string         `json:"options,omitempty"`
	Validation  ValidationRules  `json:"validation"`
	Conditional *ConditionalRule `json:"conditional,omitempty"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Conditional != nil {
		cond := *q.Conditional
		out.Conditional = &cond
	}
	return out
}

// Assessment holds the ordered question list for one job. At most one per job
// by convention; the store does not enforce it.
type Assessment struct {
	ID        int64      `json:"id"`
	JobID     int64      `json:"jobId"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy of the assessment.
func (a Assessment) Clone() Assessment {
	out := a
	if a.Questions != nil {
		out.Questions = make([]Question, len(a.Questions))
		for i, q := range a.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	return out
}

// Response is a candidate's submitted answer document, append-only.
type Response struct {
	ID           int64             `json:"id"`
	AssessmentID int64             `json:"assessmentId"`
	CandidateID  int64             `json:"candidateId"`
	// Answers maps questionID to the submitted value.
	Answers map[string]interface{} `json:"answers"`
}

// Clone returns a deep copy of the response.
func (r Response) Clone() Response {
	out := r
	if r.Answers != nil {
		out.Answers = make(map[string]interface{}, len(r.Answers))
		for k, v := range r.Answers {
			out.Answers[k] = v
		}
	}
	return out
}
