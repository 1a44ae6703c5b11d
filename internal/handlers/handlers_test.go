package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/services"
)

var errProviderDown = errors.New("provider unavailable")

type stubProvider struct {
	vectors map[string][]float32
	failAll bool
}

func (s *stubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.failAll {
		return nil, errProviderDown
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0.5, 0.5, 0.5}, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newStubAnalyzer(failAll bool) services.AnalyzerService {
	return services.NewAnalyzerService(&stubProvider{
		vectors: map[string][]float32{
			"go engineer":    {1, 0, 0},
			"go developer":   {0.6, 0.8, 0},
			"opposite of go": {-1, 0, 0},
		},
		failAll: failAll,
	}, zap.NewNop())
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
}
