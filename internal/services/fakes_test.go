package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

var errProviderDown = errors.New("provider unavailable")

// fakeProvider returns fixed vectors per text. Unknown texts get a default
// vector so tests only list the texts they care about.
type fakeProvider struct {
	vectors map[string][]float32
	failOn  map[string]bool
	failAll bool

	mu    sync.Mutex
	calls []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		vectors: map[string][]float32{
			"go engineer":       {1, 0, 0},
			"go developer":      {0.6, 0.8, 0},
			"pastry chef":       {0, 0, 1},
			"opposite of go":    {-1, 0, 0},
			"half match":        {1, 1, 0},
			"zero vector":       {0, 0, 0},
			"short vector":      {1, 0},
			"resume: go expert": {0.8, 0.6, 0},
		},
		failOn: map[string]bool{},
	}
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.failAll || f.failOn[text] {
		return nil, errProviderDown
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0.5, 0.5, 0.5}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakePDFParser treats the file bytes as the extracted text.
type fakePDFParser struct {
	failOn map[string]bool

	mu    sync.Mutex
	calls int
}

func (p *fakePDFParser) ExtractText(data []byte) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.failOn[string(data)] {
		return "", ErrNoPDFText
	}
	return string(data), nil
}

type fakeCandidateRepo struct {
	mu      sync.Mutex
	saved   []models.Candidate
	failAll bool
}

func (r *fakeCandidateRepo) CreateBatch(candidates []models.Candidate) error {
	if r.failAll {
		return errors.New("database down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, candidates...)
	return nil
}

func (r *fakeCandidateRepo) FindByID(id uuid.UUID) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.saved {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repositories.ErrCandidateNotFound
}

func (r *fakeCandidateRepo) ListByScore(limit int) ([]models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Candidate(nil), r.saved...), nil
}

type fakeIndex struct {
	mu      sync.Mutex
	points  map[string][]float32
	failAll bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{points: map[string][]float32{}}
}

func (i *fakeIndex) InitCollection(ctx context.Context, vectorSize uint64) error { return nil }

func (i *fakeIndex) UpsertCandidate(ctx context.Context, candidateID string, name string, embedding []float32) error {
	if i.failAll {
		return errors.New("qdrant down")
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.points[candidateID] = embedding
	return nil
}

func (i *fakeIndex) SearchCandidates(ctx context.Context, queryEmbedding []float32, limit int) ([]CandidateMatch, error) {
	return nil, nil
}

func jsonText(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}
