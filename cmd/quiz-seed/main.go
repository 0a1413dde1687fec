package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"course-quiz/internal/config"
	"course-quiz/internal/quiz"
	"course-quiz/internal/quiz/sqlite"
)

// quiz-seed loads quiz definitions from a JSON file into the store. Questions
// missing an id or type are dropped rather than failing the whole import,
// since exported catalogs routinely carry half-authored questions.

func main() {
	cfg := config.LoadConfig()

	dbPath := flag.String("db", cfg.DBPath, "sqlite database path")
	file := flag.String("file", "quizzes.json", "JSON file with an array of quiz definitions")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	var quizzes []quiz.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	store, err := sqlite.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	service := quiz.NewService(store, store)
	ctx := context.Background()

	imported := 0
	for _, q := range quizzes {
		q.Questions = dropInvalidQuestions(q.ID, q.Questions)
		created, err := service.CreateQuiz(ctx, q)
		if err != nil {
			log.Printf("skip quiz %q: %v", q.ID, err)
			continue
		}
		imported++
		log.Printf("imported quiz %s (%d questions)", created.ID, len(created.Questions))
	}

	log.Printf("imported %d of %d quizzes from %s", imported, len(quizzes), *file)
}

func dropInvalidQuestions(quizID string, questions []quiz.Question) []quiz.Question {
	kept := make([]quiz.Question, 0, len(questions))
	for _, question := range questions {
		if question.ID == "" || question.Type == "" {
			log.Printf("quiz %q: dropping question without id or type", quizID)
			continue
		}
		kept = append(kept, question)
	}
	return kept
}
