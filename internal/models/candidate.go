package models

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a resume that was scored through the upload flow.
type Candidate struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name       string    `gorm:"type:text" json:"name"`
	Score      float64   `gorm:"type:decimal(7,2);index" json:"score"`
	UploadDate time.Time `gorm:"type:timestamp;default:now()" json:"upload_date"`
	CreatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}
