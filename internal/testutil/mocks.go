// Package testutil holds testify mocks shared by the service and handler tests.
package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

// MockScanRepository implements repository.ScanRepository for testing
type MockScanRepository struct {
	mock.Mock
}

func (m *MockScanRepository) Create(ctx context.Context, s *models.Scan) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scan, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Scan)
	return s, args.Error(1)
}

func (m *MockScanRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Scan, error) {
	args := m.Called(ctx, sessionID)
	scans, _ := args.Get(0).([]*models.Scan)
	return scans, args.Error(1)
}

func (m *MockScanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	args := m.Called(ctx, id, status, progress)
	return args.Error(0)
}

func (m *MockScanRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockScanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockScanRepository) StoreRecord(ctx context.Context, id uuid.UUID, record *scan.Record) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *MockScanRepository) GetRecord(ctx context.Context, id uuid.UUID) (*scan.Record, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*scan.Record)
	return record, args.Error(1)
}

func (m *MockScanRepository) StoreFilterResult(ctx context.Context, result *models.FilterResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockScanRepository) GetLatestFilterResult(ctx context.Context, scanID uuid.UUID) (*models.FilterResult, error) {
	args := m.Called(ctx, scanID)
	result, _ := args.Get(0).(*models.FilterResult)
	return result, args.Error(1)
}

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProcessingService implements processing.ProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessScan(ctx context.Context, scanID uuid.UUID) error {
	args := m.Called(ctx, scanID)
	return args.Error(0)
}

func (m *MockProcessingService) IngestScan(ctx context.Context, scanID uuid.UUID, contents string) (*scan.Record, error) {
	args := m.Called(ctx, scanID, contents)
	record, _ := args.Get(0).(*scan.Record)
	return record, args.Error(1)
}

func (m *MockProcessingService) FilterScan(ctx context.Context, scanID uuid.UUID, low, high int) (*models.FilterResult, error) {
	args := m.Called(ctx, scanID, low, high)
	result, _ := args.Get(0).(*models.FilterResult)
	return result, args.Error(1)
}

// ScanText is a minimal field-off scan with eight points centred on 4000 MHz.
const ScanText = "Scan 42 01/02/1999\r1000.0 2.0 4000.0 8\r1 2 3 4 5 6 7 8\r*****"
