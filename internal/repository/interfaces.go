package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ScanRepository defines the interface for scan data operations
type ScanRepository interface {
	Create(ctx context.Context, s *models.Scan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scan, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Scan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	Delete(ctx context.Context, id uuid.UUID) error

	StoreRecord(ctx context.Context, id uuid.UUID, record *scan.Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*scan.Record, error)

	StoreFilterResult(ctx context.Context, result *models.FilterResult) error
	GetLatestFilterResult(ctx context.Context, scanID uuid.UUID) (*models.FilterResult, error)
}
