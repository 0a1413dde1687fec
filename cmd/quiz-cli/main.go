package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"course-quiz/internal/cli"
)

func main() {
	baseURL := flag.String("base", "http://127.0.0.1:8080", "quiz service base URL")
	token := flag.String("token", "", "bearer token (optional)")
	quizID := flag.String("quiz", "", "quiz id to attempt")
	user := flag.String("user", "", "user id (ignored when a token is given)")
	attemptNumber := flag.Int("attempt", 1, "attempt number")
	flag.Parse()

	opts := cli.Options{
		BaseURL:       *baseURL,
		Token:         *token,
		QuizID:        *quizID,
		User:          *user,
		AttemptNumber: *attemptNumber,
	}

	if err := cli.Run(context.Background(), opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
