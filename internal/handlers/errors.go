package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	MsgMissingInput      = "Missing job_description or resume_text"
	MsgProcessingFailed  = "Failed to process request"
	MsgNoResumes         = "No resume files uploaded."
	MsgAnalyzeFailed     = "Failed to analyze resumes."
	MsgSearchFailed      = "Failed to search candidates"
	MsgInvalidMultipart  = "failed to parse multipart form"
	MsgJobDescRequired   = "job_description is required"
	MsgCandidateNotFound = "Candidate not found"
)

type errorResponse struct {
	status  int
	message string
}

// analysisErrors maps every analysis error kind to a fixed HTTP response.
var analysisErrors = map[services.ErrorKind]errorResponse{
	services.KindMissingInput: {status: fiber.StatusBadRequest, message: MsgMissingInput},
	services.KindProcessing:   {status: fiber.StatusInternalServerError, message: MsgProcessingFailed},
}

// respondAnalysisError renders err through the table. Processing failures
// are logged with their cause; the caller only sees the generic message.
// fallback replaces the processing message for routes with their own wording.
func respondAnalysisError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	kind := services.KindOf(err)
	resp, ok := analysisErrors[kind]
	if !ok {
		resp = analysisErrors[services.KindProcessing]
	}

	if resp.status >= fiber.StatusInternalServerError {
		log.Error("❌ Request failed",
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		if fallback != "" {
			resp.message = fallback
		}
	}

	return c.Status(resp.status).JSON(models.ErrorResponse{Error: resp.message})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{Error: message})
}
