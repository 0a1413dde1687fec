package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"course-quiz/internal/client"
	"course-quiz/internal/quiz"
)

// Options configures one interactive quiz run.
type Options struct {
	BaseURL       string
	Token         string
	QuizID        string
	User          string
	AttemptNumber int
}

// Run takes one quiz end to end over the HTTP API: start an attempt, prompt
// for every question, submit, and print the graded result.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	if strings.TrimSpace(opts.QuizID) == "" {
		return errors.New("quiz id is required")
	}
	if opts.AttemptNumber <= 0 {
		opts.AttemptNumber = 1
	}

	api := client.NewHTTPClient(opts.BaseURL, opts.Token, nil)

	q, err := api.GetQuiz(ctx, opts.QuizID)
	if err != nil {
		return err
	}

	attempt, err := api.StartAttempt(ctx, opts.QuizID, opts.User, time.Now().UTC(), opts.AttemptNumber)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (attempt %d)\n", q.Title, attempt.AttemptNumber)

	reader := bufio.NewReader(in)
	answers := make([]quiz.SubmittedAnswer, 0, len(q.Questions))
	for idx, question := range q.Questions {
		printQuestion(out, idx+1, question)
		userAnswer, err := readAnswer(reader)
		if err != nil {
			return err
		}
		answers = append(answers, quiz.SubmittedAnswer{
			QuestionID: question.ID,
			UserAnswer: userAnswer,
		})
	}

	graded, err := api.SubmitAttempt(ctx, attempt.ID, time.Now().UTC(), answers)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, answer := range graded.Answers {
		mark := "✗"
		if answer.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s %s: %q\n", mark, answer.QuestionID, answer.UserAnswer)
	}
	fmt.Fprintf(out, "\nFinal score: %g/%g\n", graded.Score, graded.TotalPoints)
	return nil
}

func printQuestion(out io.Writer, number int, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n", number, question.Prompt)

	switch question.Type {
	case quiz.TypeMultipleChoice:
		for _, choice := range question.Choices {
			fmt.Fprintf(out, "  [%s] %s\n", choice.ID, choice.Text)
		}
		fmt.Fprint(out, "choice id> ")
	case quiz.TypeTrueFalse:
		fmt.Fprint(out, "true/false> ")
	case quiz.TypeFillInBlank:
		fmt.Fprint(out, "answer> ")
	default:
		fmt.Fprint(out, "answer> ")
	}
}

func readAnswer(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
