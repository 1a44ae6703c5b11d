package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var candidateColumns = []string{"id", "name", "score", "upload_date", "created_at", "updated_at"}

func newMockRepository(t *testing.T) (CandidateRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	return NewCandidateRepository(db), mock
}

func TestListByScoreOrdersHighestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Now()
	first, second := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "candidates" ORDER BY score DESC,upload_date ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow(first.String(), "alice.pdf", 91.5, now, now, now).
			AddRow(second.String(), "bob.pdf", 72.25, now, now, now))

	candidates, err := repo.ListByScore(10)
	if err != nil {
		t.Fatalf("ListByScore: %v", err)
	}
	if len(candidates) != 2 || candidates[0].ID != first || candidates[1].Score != 72.25 {
		t.Errorf("unexpected candidates %+v", candidates)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListByScoreWrapsErrors(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT \* FROM "candidates"`).WillReturnError(errors.New("connection reset"))

	if _, err := repo.ListByScore(5); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindByID(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		wantErr  error
		wantName string
	}{
		{
			name:     "found",
			rows:     sqlmock.NewRows(candidateColumns).AddRow(uuid.NewString(), "alice.pdf", 91.5, time.Now(), time.Now(), time.Now()),
			wantName: "alice.pdf",
		},
		{
			name:    "not found",
			rows:    sqlmock.NewRows(candidateColumns),
			wantErr: ErrCandidateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(`SELECT \* FROM "candidates" WHERE id = \$1`).WillReturnRows(tt.rows)

			candidate, err := repo.FindByID(uuid.New())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByID: %v", err)
			}
			if candidate.Name != tt.wantName {
				t.Errorf("name = %q, want %q", candidate.Name, tt.wantName)
			}
		})
	}
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "candidates"`).WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	now := time.Now()
	err := repo.CreateBatch([]models.Candidate{
		{ID: uuid.New(), Name: "alice.pdf", Score: 91.5, UploadDate: now, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Name: "bob.pdf", Score: 72.25, UploadDate: now, CreatedAt: now, UpdatedAt: now},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateBatchEmptyIsNoop(t *testing.T) {
	repo, mock := newMockRepository(t)

	if err := repo.CreateBatch(nil); err != nil {
		t.Fatalf("CreateBatch(nil): %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
