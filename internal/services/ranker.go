package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	applog "alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type ResumeFile struct {
	Name string
	Data []byte
}

type RankerService interface {
	Rank(ctx context.Context, jobDescription string, resumes []ResumeFile) ([]models.Candidate, error)
}

type rankerService struct {
	analyzer      AnalyzerService
	pdfParser     PDFParserService
	candidateRepo repositories.CandidateRepository
	index         CandidateIndex
	concurrency   int
	log           *zap.Logger
}

// NewRankerService wires the upload flow. candidateRepo and index are
// optional; a nil value skips persistence or indexing.
func NewRankerService(
	analyzer AnalyzerService,
	pdfParser PDFParserService,
	candidateRepo repositories.CandidateRepository,
	index CandidateIndex,
	concurrency int,
	log *zap.Logger,
) RankerService {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &rankerService{
		analyzer:      analyzer,
		pdfParser:     pdfParser,
		candidateRepo: candidateRepo,
		index:         index,
		concurrency:   concurrency,
		log:           log,
	}
}

type scoredResume struct {
	candidate models.Candidate
	embedding []float32
}

// Rank scores every resume against jobDescription and returns the
// candidates ordered by score, highest first. Resumes with equal scores
// keep their upload order. Any failure aborts the whole batch, and nothing
// is saved unless every resume scored.
func (r *rankerService) Rank(ctx context.Context, jobDescription string, resumes []ResumeFile) ([]models.Candidate, error) {
	jobEmbedding, err := r.analyzer.Embed(ctx, jobDescription)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredResume, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, resume := range resumes {
		g.Go(func() error {
			result, err := r.scoreResume(gctx, jobEmbedding, resume)
			if err != nil {
				return fmt.Errorf("resume %q: %w", resume.Name, err)
			}
			scored[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b scoredResume) int {
		return cmp.Compare(b.candidate.Score, a.candidate.Score)
	})

	candidates := make([]models.Candidate, len(scored))
	for i, s := range scored {
		candidates[i] = s.candidate
	}

	if r.candidateRepo != nil {
		if err := r.candidateRepo.CreateBatch(candidates); err != nil {
			return nil, NewProcessingError(err)
		}
	}

	if r.index != nil {
		for _, s := range scored {
			r.indexCandidate(ctx, s)
		}
	}

	return candidates, nil
}

func (r *rankerService) scoreResume(ctx context.Context, jobEmbedding []float32, resume ResumeFile) (scoredResume, error) {
	text, err := r.pdfParser.ExtractText(resume.Data)
	if err != nil {
		return scoredResume{}, NewProcessingError(fmt.Errorf("failed to extract text: %w", err))
	}

	score, resumeEmbedding, err := r.analyzer.ScoreEmbedding(ctx, jobEmbedding, text)
	if err != nil {
		return scoredResume{}, err
	}

	now := time.Now()
	candidate := models.Candidate{
		ID:         uuid.New(),
		Name:       resume.Name,
		Score:      score,
		UploadDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r.log.Info("📄 Resume scored",
		zap.String("name", candidate.Name),
		zap.Float64("score", candidate.Score),
		zap.String("preview", applog.TruncateForLog(text, 80)),
	)

	return scoredResume{candidate: candidate, embedding: resumeEmbedding}, nil
}

// indexCandidate is best effort; the candidate is already saved.
func (r *rankerService) indexCandidate(ctx context.Context, s scoredResume) {
	id := s.candidate.ID.String()
	if err := r.index.UpsertCandidate(ctx, id, s.candidate.Name, s.embedding); err != nil {
		r.log.Warn("⚠️ Failed to index candidate",
			zap.String("candidate_id", id),
			zap.Error(err),
		)
	}
}
