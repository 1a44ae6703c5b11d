package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/services"
)

type UploadHandler struct {
	ranker      services.RankerService
	maxFileSize int64
	log         *zap.Logger
}

func NewUploadHandler(
	ranker services.RankerService,
	maxFileSize int64,
	log *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		ranker:      ranker,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// HandleUpload handles POST /upload with a jobDescription field and one or
// more PDF files under "resumes".
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, MsgInvalidMultipart)
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return respondError(c, fiber.StatusBadRequest, MsgNoResumes)
	}

	var jobDescription string
	if values := form.Value["jobDescription"]; len(values) > 0 {
		jobDescription = values[0]
	}
	if jobDescription == "" {
		return respondError(c, fiber.StatusBadRequest, MsgMissingInput)
	}

	resumes := make([]services.ResumeFile, 0, len(files))
	for _, file := range files {
		if file.Size > h.maxFileSize {
			return respondError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Resume %s too large. Max size: %d bytes", file.Filename, h.maxFileSize))
		}

		if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
			return respondError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Resume %s must be a PDF file", file.Filename))
		}

		data, err := readFile(file)
		if err != nil {
			return respondAnalysisError(c, h.log, services.NewProcessingError(err), MsgAnalyzeFailed)
		}

		resumes = append(resumes, services.ResumeFile{Name: file.Filename, Data: data})
	}

	candidates, err := h.ranker.Rank(c.UserContext(), jobDescription, resumes)
	if err != nil {
		return respondAnalysisError(c, h.log, err, MsgAnalyzeFailed)
	}

	return c.JSON(candidates)
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return data, nil
}
