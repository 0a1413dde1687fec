package quiz

import "fmt"

// ValidateQuiz checks the shape of an authored quiz definition. It does not
// require type-specific payloads to be present: grading degrades malformed
// questions instead of failing, and authored data in the wild does arrive
// without them.
func ValidateQuiz(q Quiz) error {
	if q.Course == "" {
		return fmt.Errorf("%w: course is required", ErrInvalidInput)
	}
	if q.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if q.Points < 0 {
		return fmt.Errorf("%w: points must be non-negative", ErrInvalidInput)
	}
	if q.Attempts < 0 {
		return fmt.Errorf("%w: attempts must be non-negative", ErrInvalidInput)
	}
	if q.TimeLimit < 0 {
		return fmt.Errorf("%w: timeLimit must be non-negative", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(q.Questions))
	for idx, question := range q.Questions {
		if err := ValidateQuestion(question); err != nil {
			return fmt.Errorf("question %d: %w", idx, err)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidInput, question.ID)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}

// ValidateQuestion checks a single question's shape against the closed type
// set.
func ValidateQuestion(q Question) error {
	if q.ID == "" {
		return fmt.Errorf("%w: question id is required", ErrInvalidInput)
	}
	switch q.Type {
	case TypeMultipleChoice, TypeTrueFalse, TypeFillInBlank:
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidInput, q.Type)
	}
	if q.Points < 0 {
		return fmt.Errorf("%w: question %q points must be non-negative", ErrInvalidInput, q.ID)
	}
	for _, choice := range q.Choices {
		if choice.ID == "" {
			return fmt.Errorf("%w: question %q has a choice without an id", ErrInvalidInput, q.ID)
		}
	}
	return nil
}
