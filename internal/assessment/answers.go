// internal/assessment/answers.go
package assessment

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "talentflow-backend/internal/common/errors"
	"talentflow-backend/internal/models"
)

// BuildAnswerSchema derives a JSON schema for the answer document from the
// currently visible questions. Hidden questions are excluded entirely, so
// answers for them are neither required nor validated.
func BuildAnswerSchema(a models.Assessment, answers map[string]interface{}) map[string]interface{} {
	properties := map[string]interface{}{}
	required := []string{}

	for _, q := range VisibleQuestions(a, answers) {
		properties[q.ID] = questionSchema(q)
		if q.Validation.Required {
			required = append(required, q.ID)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func questionSchema(q models.Question) map[string]interface{} {
	prop := map[string]interface{}{}

	switch q.Type {
	case models.QuestionSingleChoice:
		prop["type"] = "string"
		prop["enum"] = q.Options
	case models.QuestionMultiChoice:
		prop["type"] = "array"
		prop["items"] = map[string]interface{}{
			"type": "string",
			"enum": q.Options,
		}
	case models.QuestionNumeric:
		prop["type"] = "number"
		if q.Validation.Min != nil {
			prop["minimum"] = *q.Validation.Min
		}
		if q.Validation.Max != nil {
			prop["maximum"] = *q.Validation.Max
		}
	case models.QuestionShortText, models.QuestionLongText, models.QuestionFileUpload:
		prop["type"] = "string"
		if q.Validation.MinLength != nil {
			prop["minLength"] = *q.Validation.MinLength
		}
		if q.Validation.MaxLength != nil {
			prop["maxLength"] = *q.Validation.MaxLength
		}
	}

	return prop
}

// ValidateAnswers checks a submitted answer document against the assessment's
// rules before the write is issued. Answers to hidden questions are ignored.
func ValidateAnswers(a models.Assessment, answers map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(BuildAnswerSchema(a, answers))
	documentLoader := gojsonschema.NewGoLoader(answers)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stderrors.NewValidationError(fmt.Sprintf("schema validation: %v", err))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return stderrors.NewValidationError(strings.Join(msgs, "; "))
	}
	return nil
}
