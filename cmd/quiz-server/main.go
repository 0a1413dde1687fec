package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"course-quiz/internal/config"
	"course-quiz/internal/httpapi"
	"course-quiz/internal/middleware"
	"course-quiz/internal/quiz"
	"course-quiz/internal/quiz/sqlite"
)

func main() {
	cfg := config.LoadConfig()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "sqlite database path")
	flag.Parse()

	store, err := sqlite.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	service := quiz.NewService(store, store)
	auth := middleware.NewAuth(cfg.JWTSecret)

	server := &http.Server{
		Addr:              *addr,
		Handler:           auth.WithAuth(httpapi.NewRouter(service)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("quiz-server listening on %s (db %s)", *addr, *dbPath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
