// Command import loads a question bank workbook into the local store,
// replacing the current question set. With -preview it only parses and
// prints the first rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"quizdesk/internal/config"
	"quizdesk/internal/database"
	"quizdesk/internal/ingest"
	"quizdesk/internal/logger"
	"quizdesk/internal/repository"
	"quizdesk/internal/service"
	"quizdesk/internal/settings"
)

func main() {
	previewRows := flag.Int("preview", 0, "preview the first N accepted rows without importing")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-preview N] <workbook.xlsx>\n", os.Args[0])
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if *previewRows > 0 {
		result, err := ingest.Preview(filePath, *previewRows)
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		for _, q := range result.Questions {
			fmt.Printf("%-40.40s  answer=%s  category=%s\n", q.Stem, q.Answer, q.Category)
		}
		if result.Skipped > 0 {
			fmt.Printf("skipped %d invalid rows\n", result.Skipped)
		}
		return
	}

	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	repo := repository.NewQuestionDatabaseAdapter(db)
	defer repo.Close()

	quizService := service.NewQuizService(repo, settings.NewStore(cfg.Settings.Path))
	result, err := quizService.ImportFile(context.Background(), filePath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("imported %d questions from %s", result.Count, result.FilePath)
	if result.Skipped > 0 {
		fmt.Printf(" (skipped %d invalid rows)", result.Skipped)
	}
	fmt.Println()
}
