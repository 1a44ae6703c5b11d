package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	defaultCandidateLimit = 10
	maxCandidateLimit     = 100
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	log           *zap.Logger
}

func NewCandidateHandler(candidateRepo repositories.CandidateRepository, log *zap.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		log:           log,
	}
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	limit := clampLimit(c.QueryInt("limit", defaultCandidateLimit))

	candidates, err := h.candidateRepo.ListByScore(limit)
	if err != nil {
		h.log.Error("❌ Failed to list candidates", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, MsgProcessingFailed)
	}

	return c.JSON(candidates)
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid candidate ID format")
	}

	candidate, err := h.candidateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrCandidateNotFound) {
			return respondError(c, fiber.StatusNotFound, MsgCandidateNotFound)
		}
		h.log.Error("❌ Failed to load candidate", zap.String("id", id.String()), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, MsgProcessingFailed)
	}

	return c.JSON(candidate)
}

type SearchHandler struct {
	analyzer services.AnalyzerService
	index    services.CandidateIndex
	log      *zap.Logger
}

func NewSearchHandler(analyzer services.AnalyzerService, index services.CandidateIndex, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		analyzer: analyzer,
		index:    index,
		log:      log,
	}
}

// HandleSearch handles POST /candidates/search
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req models.CandidateSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.JobDescription == "" {
		return respondError(c, fiber.StatusBadRequest, MsgJobDescRequired)
	}

	embedding, err := h.analyzer.Embed(c.UserContext(), req.JobDescription)
	if err != nil {
		return respondAnalysisError(c, h.log, err, MsgSearchFailed)
	}

	matches, err := h.index.SearchCandidates(c.UserContext(), embedding, clampLimit(req.Limit))
	if err != nil {
		return respondAnalysisError(c, h.log, services.NewProcessingError(err), MsgSearchFailed)
	}

	results := make([]models.CandidateSearchResult, 0, len(matches))
	for _, match := range matches {
		similarity := float64(match.Score)
		results = append(results, models.CandidateSearchResult{
			CandidateID: match.CandidateID,
			Name:        match.Name,
			Similarity:  similarity,
			MatchScore:  services.MatchScore(similarity),
		})
	}

	return c.JSON(models.CandidateSearchResponse{Results: results})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultCandidateLimit
	}
	if limit > maxCandidateLimit {
		return maxCandidateLimit
	}
	return limit
}
