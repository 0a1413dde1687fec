package quiz

import "strings"

// GradeResult is the outcome of grading one submission against one quiz
// snapshot.
type GradeResult struct {
	Score       float64
	TotalPoints float64
	Answers     []Answer
}

// Grade scores a submission against a quiz snapshot. It is a pure function:
// the same snapshot and answers always produce the same result.
//
// Every question in the quiz contributes its points to TotalPoints and emits
// exactly one Answer record, in quiz order. A question with no matching
// submitted answer is graded against the empty string. Submitted answers that
// reference no quiz question are dropped. Malformed questions (missing
// type-specific payload, unknown type tag) are never correct but still count
// toward TotalPoints, so one bad question cannot block scoring of the rest.
func Grade(q Quiz, submitted []SubmittedAnswer) GradeResult {
	// First submission per question wins; later duplicates are ignored.
	byQuestion := make(map[string]string, len(submitted))
	for _, sa := range submitted {
		if _, ok := byQuestion[sa.QuestionID]; !ok {
			byQuestion[sa.QuestionID] = sa.UserAnswer
		}
	}

	result := GradeResult{Answers: make([]Answer, 0, len(q.Questions))}
	for _, question := range q.Questions {
		result.TotalPoints += question.Points

		userAnswer := byQuestion[question.ID]
		correct := answerCorrect(question, userAnswer)
		if correct {
			result.Score += question.Points
		}

		result.Answers = append(result.Answers, Answer{
			QuestionID: question.ID,
			UserAnswer: userAnswer,
			IsCorrect:  correct,
		})
	}

	return result
}

func answerCorrect(q Question, userAnswer string) bool {
	switch q.Type {
	case TypeMultipleChoice:
		// Exact string match against the choice id; an empty CorrectOption is
		// a malformed payload and never matches, including the empty answer.
		return q.CorrectOption != "" && userAnswer == q.CorrectOption
	case TypeTrueFalse:
		if q.CorrectAnswer == nil {
			return false
		}
		// Only the literal strings "true" and "false" can be correct.
		return (userAnswer == "true" && *q.CorrectAnswer) ||
			(userAnswer == "false" && !*q.CorrectAnswer)
	case TypeFillInBlank:
		lowered := strings.ToLower(userAnswer)
		for _, accepted := range q.PossibleAnswers {
			if lowered == strings.ToLower(accepted) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
