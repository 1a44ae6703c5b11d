package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	applog "alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Usage: go run ./scripts/score_resumes.go -job job_description.txt resume1.pdf resume2.pdf
func main() {
	jobPath := flag.String("job", "", "path to a plain text job description")
	flag.Parse()

	if *jobPath == "" || flag.NArg() == 0 {
		log.Fatal("❌ usage: score_resumes -job <job_description.txt> <resume.pdf>...")
	}

	cfg := config.Load()

	zl, err := applog.New(false, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	jobDescription, err := os.ReadFile(*jobPath)
	if err != nil {
		zl.Fatal("❌ Failed to read job description", zap.Error(err))
	}

	ctx := context.Background()

	provider, err := services.NewEmbeddingProvider(ctx, cfg.Embedding, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize embedding provider", zap.Error(err))
	}

	ranker := services.NewRankerService(
		services.NewAnalyzerService(provider, zl),
		services.NewPDFParserService(),
		nil,
		nil,
		cfg.Worker.Concurrency,
		zl,
	)

	var resumes []services.ResumeFile
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			zl.Warn("⚠️ Skipping unreadable resume", zap.String("path", path), zap.Error(err))
			continue
		}
		resumes = append(resumes, services.ResumeFile{Name: filepath.Base(path), Data: data})
	}

	if len(resumes) == 0 {
		zl.Fatal("❌ No readable resumes")
	}

	candidates, err := ranker.Rank(ctx, string(jobDescription), resumes)
	if err != nil {
		zl.Fatal("❌ Failed to rank resumes", zap.Error(err))
	}

	fmt.Printf("%-4s %-8s %s\n", "#", "SCORE", "RESUME")
	fmt.Println(strings.Repeat("-", 40))
	for i, candidate := range candidates {
		fmt.Printf("%-4d %-8.2f %s\n", i+1, candidate.Score, candidate.Name)
	}
}
