package quiz

import "time"

// Question type tags form a closed set; grading dispatches on them and treats
// anything else as ungradable.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeFillInBlank    = "fill_in_blank"
)

// Choice is one selectable option of a multiple_choice question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question carries one payload shape per type tag. Payload fields for the
// other types stay at their zero values; an absent payload for the question's
// own type marks the question malformed, which grading tolerates.
type Question struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Title  string  `json:"title,omitempty"`
	Prompt string  `json:"question,omitempty"`
	Points float64 `json:"points"`

	// multiple_choice; empty CorrectOption means the payload is absent.
	Choices       []Choice `json:"choices,omitempty"`
	CorrectOption string   `json:"correctOption,omitempty"`

	// true_false; nil means the payload is absent (distinct from false).
	CorrectAnswer *bool `json:"correctAnswer,omitempty"`

	// fill_in_blank
	PossibleAnswers []string `json:"possibleAnswers,omitempty"`
}

// Quiz is an immutable snapshot of a quiz definition. Nil time bounds impose
// no restriction; Attempts 0 means unlimited.
type Quiz struct {
	ID             string     `json:"id"`
	Course         string     `json:"course"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Points         float64    `json:"points"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	AvailableFrom  *time.Time `json:"availableFrom,omitempty"`
	AvailableUntil *time.Time `json:"availableUntil,omitempty"`
	Published      bool       `json:"published"`
	ShuffleAnswers bool       `json:"shuffleAnswers"`
	TimeLimit      int        `json:"timeLimit,omitempty"`
	Attempts       int        `json:"attempts,omitempty"`
	Questions      []Question `json:"questions"`
}

// Answer is one graded per-question record. UserAnswer is always a string;
// boolean answers arrive serialized as "true"/"false".
type Answer struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// SubmittedAnswer is the raw client answer before grading.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

// QuizAttempt is one student's pass at a quiz. EndTime nil means the attempt
// is still in progress; it transitions exactly once to graded, at which point
// EndTime, Score, TotalPoints and Answers are final.
type QuizAttempt struct {
	ID            string     `json:"id"`
	Quiz          string     `json:"quiz"`
	User          string     `json:"user"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Score         float64    `json:"score"`
	TotalPoints   float64    `json:"totalPoints"`
	Answers       []Answer   `json:"answers"`
	AttemptNumber int        `json:"attemptNumber"`
}

// Graded reports whether the attempt has been finalized.
func (a QuizAttempt) Graded() bool {
	return a.EndTime != nil
}
