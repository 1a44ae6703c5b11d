package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type ErrorKind int

const (
	KindMissingInput ErrorKind = iota + 1
	KindProcessing
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingInput:
		return "missing_input"
	case KindProcessing:
		return "processing"
	default:
		return "unknown"
	}
}

var ErrMissingInput = errors.New("missing job_description or resume_text")

// AnalysisError classifies a failed analysis so the transport layer can map
// it without inspecting the cause.
type AnalysisError struct {
	Kind ErrorKind
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewProcessingError(err error) *AnalysisError {
	return &AnalysisError{Kind: KindProcessing, Err: err}
}

// KindOf returns the kind carried by err, or KindProcessing for any error
// that was not classified.
func KindOf(err error) ErrorKind {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return analysisErr.Kind
	}
	return KindProcessing
}

// ValidatedRequest holds the two texts of an analysis once both are known
// to be present.
type ValidatedRequest struct {
	JobDescription string
	ResumeText     string
}

// ValidateRequest treats an absent field and the falsy JSON values null,
// false, 0, "", [] and {} as missing input. A present value that is not a
// string is a processing error.
func ValidateRequest(req *models.AnalysisRequest) (ValidatedRequest, error) {
	if req == nil {
		return ValidatedRequest{}, &AnalysisError{Kind: KindMissingInput, Err: ErrMissingInput}
	}

	job, err := decodeField(req.JobDescription)
	if err != nil {
		return ValidatedRequest{}, NewProcessingError(fmt.Errorf("invalid job_description: %w", err))
	}
	resume, err := decodeField(req.ResumeText)
	if err != nil {
		return ValidatedRequest{}, NewProcessingError(fmt.Errorf("invalid resume_text: %w", err))
	}

	if !truthy(job) || !truthy(resume) {
		return ValidatedRequest{}, &AnalysisError{Kind: KindMissingInput, Err: ErrMissingInput}
	}

	jobText, ok := job.(string)
	if !ok {
		return ValidatedRequest{}, NewProcessingError(fmt.Errorf("job_description must be a string, got %T", job))
	}
	resumeText, ok := resume.(string)
	if !ok {
		return ValidatedRequest{}, NewProcessingError(fmt.Errorf("resume_text must be a string, got %T", resume))
	}

	return ValidatedRequest{
		JobDescription: jobText,
		ResumeText:     resumeText,
	}, nil
}

func decodeField(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

type AnalyzerService interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error)
	Score(ctx context.Context, jobDescription, resumeText string) (float64, error)
	ScoreEmbedding(ctx context.Context, jobEmbedding []float32, resumeText string) (float64, []float32, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

type analyzerService struct {
	provider EmbeddingProvider
	log      *zap.Logger
}

func NewAnalyzerService(provider EmbeddingProvider, log *zap.Logger) AnalyzerService {
	return &analyzerService{
		provider: provider,
		log:      log,
	}
}

// Analyze implements AnalyzerService. Errors are always *AnalysisError.
func (a *analyzerService) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error) {
	validated, err := ValidateRequest(req)
	if err != nil {
		return nil, err
	}

	score, err := a.Score(ctx, validated.JobDescription, validated.ResumeText)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResponse{MatchScore: score}, nil
}

// Score implements AnalyzerService.
func (a *analyzerService) Score(ctx context.Context, jobDescription, resumeText string) (float64, error) {
	jobEmbedding, err := a.Embed(ctx, jobDescription)
	if err != nil {
		return 0, err
	}

	score, _, err := a.ScoreEmbedding(ctx, jobEmbedding, resumeText)
	return score, err
}

// ScoreEmbedding scores resumeText against an already embedded job
// description and returns the resume embedding alongside the score.
func (a *analyzerService) ScoreEmbedding(ctx context.Context, jobEmbedding []float32, resumeText string) (float64, []float32, error) {
	resumeEmbedding, err := a.Embed(ctx, resumeText)
	if err != nil {
		return 0, nil, err
	}

	similarity, err := CosineSimilarity(jobEmbedding, resumeEmbedding)
	if err != nil {
		return 0, nil, NewProcessingError(fmt.Errorf("failed to compute similarity: %w", err))
	}

	score := MatchScore(similarity)
	a.log.Debug("resume scored",
		zap.String("provider", a.provider.Name()),
		zap.Float64("similarity", similarity),
		zap.Float64("match_score", score),
	)

	return score, resumeEmbedding, nil
}

// Embed implements AnalyzerService.
func (a *analyzerService) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := a.provider.Embed(ctx, text)
	if err != nil {
		return nil, NewProcessingError(fmt.Errorf("failed to embed text with %s: %w", a.provider.Name(), err))
	}
	return embedding, nil
}
