package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	CreateBatch(candidates []models.Candidate) error
	FindByID(id uuid.UUID) (*models.Candidate, error)
	ListByScore(limit int) ([]models.Candidate, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// CreateBatch inserts all candidates in one transaction, so a failed batch
// leaves no rows behind.
func (r *candidateRepository) CreateBatch(candidates []models.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&candidates).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create candidates: %w", err)
	}

	return nil
}

// FindByID implements CandidateRepository.
func (r *candidateRepository) FindByID(id uuid.UUID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}

		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}

	return &candidate, nil
}

// ListByScore returns candidates with the highest score first.
func (r *candidateRepository) ListByScore(limit int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	query := r.db.Order("score DESC").Order("upload_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	return candidates, nil
}
