package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
	log      *zap.Logger
}

func NewAnalyzeHandler(analyzer services.AnalyzerService, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		log:      log,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalysisRequest

	// A body that does not decode is a processing failure, not missing input
	if err := c.BodyParser(&req); err != nil {
		return respondAnalysisError(c, h.log, services.NewProcessingError(fmt.Errorf("failed to parse request body: %w", err)), "")
	}

	resp, err := h.analyzer.Analyze(c.UserContext(), &req)
	if err != nil {
		return respondAnalysisError(c, h.log, err, "")
	}

	return c.JSON(resp)
}
