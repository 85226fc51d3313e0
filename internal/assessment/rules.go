// Package assessment holds the builder-side rules for assessment documents:
// structural validation, conditional-display resolution, and answer
// validation. Conditional visibility is a direct map lookup per question;
// cycles among conditional references are rejected at validation time rather
// than resolved.
package assessment

import (
	"fmt"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/models"
)

// ValidateStructure checks an assessment before it is written: recognized
// question types, options present where the variant needs them, and
// conditional references that point at a different, existing question without
// forming a cycle.
func ValidateStructure(a models.Assessment) error {
	if a.Title == "" {
		return stderrors.NewValidationError("assessment title is required")
	}

	byID := make(map[string]models.Question, len(a.Questions))
	for _, q := range a.Questions {
		if q.ID == "" {
			return stderrors.NewValidationError("question id is required")
		}
		if _, dup := byID[q.ID]; dup {
			return stderrors.NewValidationError(fmt.Sprintf("duplicate question id: %s", q.ID))
		}
		byID[q.ID] = q
	}

	for _, q := range a.Questions {
		if !models.ValidQuestionType(q.Type) {
			return stderrors.NewValidationError(fmt.Sprintf("unknown question type: %s", q.Type))
		}
		if (q.Type == models.QuestionSingleChoice || q.Type == models.QuestionMultiChoice) && len(q.Options) == 0 {
			return stderrors.NewValidationError(fmt.Sprintf("question %s needs at least one option", q.ID))
		}
		if q.Conditional != nil {
			ref := q.Conditional.QuestionID
			if ref == q.ID {
				return stderrors.NewValidationError(fmt.Sprintf("question %s references itself", q.ID))
			}
			if _, ok := byID[ref]; !ok {
				return stderrors.NewValidationError(fmt.Sprintf("question %s references unknown question %s", q.ID, ref))
			}
		}
	}

	return checkConditionalCycles(byID)
}

// checkConditionalCycles walks each conditional chain with a visited set.
// Chains are short in practice; this stays a map lookup per hop.
func checkConditionalCycles(byID map[string]models.Question) error {
	for start := range byID {
		visited := map[string]bool{}
		cur := start
		for {
			if visited[cur] {
				return stderrors.NewConditionalCycleError(cur)
			}
			visited[cur] = true

			q := byID[cur]
			if q.Conditional == nil {
				break
			}
			cur = q.Conditional.QuestionID
		}
	}
	return nil
}

// Visible reports whether one question should be shown given the current
// answers: a direct lookup of the referenced answer against the expected
// value. Questions without a conditional rule are always visible.
func Visible(q models.Question, answers map[string]interface{}) bool {
	if q.Conditional == nil || q.Conditional.QuestionID == "" {
		return true
	}
	got, ok := answers[q.Conditional.QuestionID]
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", got) == q.Conditional.ExpectedValue
}

// VisibleQuestions filters the assessment's ordered question list down to the
// questions currently shown.
func VisibleQuestions(a models.Assessment, answers map[string]interface{}) []models.Question {
	out := make([]models.Question, 0, len(a.Questions))
	for _, q := range a.Questions {
		if Visible(q, answers) {
			out = append(out, q)
		}
	}
	return out
}
