package processing

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectraviewer/internal/metrics"
	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/internal/spectral"
	"github.com/RMahshie/spectraviewer/internal/testutil"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

func newTestService(repo *testutil.MockScanRepository, s3 *testutil.MockS3Service) (*processingService, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	svc := NewProcessingService(s3, repo, m).(*processingService)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestProcessScan(t *testing.T) {
	key := "scans/test.txt"

	tests := []struct {
		name       string
		object     []byte
		downloadOK bool
		wantStatus string
		wantResult string
	}{
		{
			name:       "valid scan",
			object:     []byte(testutil.ScanText),
			downloadOK: true,
			wantStatus: models.StatusCompleted,
			wantResult: metrics.ResultOK,
		},
		{
			name:       "malformed scan",
			object:     []byte("Scan 1\r1000.0 2.0 4000.0\r1 2"),
			downloadOK: true,
			wantStatus: models.StatusFailed,
			wantResult: metrics.ResultMalformed,
		},
		{
			name:       "download failure",
			downloadOK: false,
			wantStatus: models.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &testutil.MockScanRepository{}
			s3 := &testutil.MockS3Service{}
			svc, m := newTestService(repo, s3)

			id := uuid.New()
			repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
			repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String(), ObjectKey: &key}, nil)

			if tt.downloadOK {
				s3.On("DownloadFile", mock.Anything, key).Return(tt.object, nil)
			} else {
				s3.On("DownloadFile", mock.Anything, key).Return(nil, errors.New("connection refused"))
			}

			switch tt.wantStatus {
			case models.StatusCompleted:
				repo.On("StoreRecord", mock.Anything, id, mock.AnythingOfType("*scan.Record")).Return(nil)
				repo.On("UpdateStatus", mock.Anything, id, models.StatusCompleted, 100).Return(nil)
			case models.StatusFailed:
				repo.On("UpdateError", mock.Anything, id, mock.AnythingOfType("string")).Return(nil)
			}

			err := svc.ProcessScan(context.Background(), id)
			require.NoError(t, err)

			repo.AssertExpectations(t)
			s3.AssertExpectations(t)
			if tt.wantResult != "" {
				assert.Equal(t, 1.0, promtest.ToFloat64(m.ScansParsed.WithLabelValues(tt.wantResult)))
			}
		})
	}
}

func TestProcessScan_NoObjectKey(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	s3 := &testutil.MockS3Service{}
	svc, _ := newTestService(repo, s3)

	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, 10).Return(nil)
	repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String()}, nil)
	repo.On("UpdateError", mock.Anything, id, "Scan has no uploaded file").Return(nil)

	require.NoError(t, svc.ProcessScan(context.Background(), id))
	repo.AssertExpectations(t)
	s3.AssertNotCalled(t, "DownloadFile", mock.Anything, mock.Anything)
}

func TestProcessScan_RepositoryError(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	svc, _ := newTestService(repo, &testutil.MockS3Service{})

	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, 10).Return(repository.ErrNotFound)

	err := svc.ProcessScan(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIngestScan(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	s3 := &testutil.MockS3Service{}
	svc, _ := newTestService(repo, s3)

	id := uuid.New()
	contents := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.ScanText))

	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
	repo.On("StoreRecord", mock.Anything, id, mock.AnythingOfType("*scan.Record")).Return(nil)
	repo.On("UpdateStatus", mock.Anything, id, models.StatusCompleted, 100).Return(nil)
	s3.On("UploadFile", mock.Anything, "scans/"+id.String()+".txt", "text/plain", []byte(testutil.ScanText)).
		Return(errors.New("bucket unavailable"))

	record, err := svc.IngestScan(context.Background(), id, contents)
	require.NoError(t, err, "archive failures must not fail the upload")
	assert.Equal(t, 42, record.Settings.ID)
	assert.Len(t, record.Frequency, 8)

	repo.AssertExpectations(t)
	s3.AssertExpectations(t)
}

func TestIngestScan_Rejected(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	s3 := &testutil.MockS3Service{}
	svc, m := newTestService(repo, s3)

	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
	repo.On("UpdateError", mock.Anything, id, mock.AnythingOfType("string")).Return(nil)

	_, err := svc.IngestScan(context.Background(), id, "data:text/plain;base64,%%%")
	var decodeErr *scan.DecodeError
	require.ErrorAs(t, err, &decodeErr)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.ScansParsed.WithLabelValues(metrics.ResultDecode)))
	repo.AssertNotCalled(t, "StoreRecord", mock.Anything, mock.Anything, mock.Anything)
	s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIngestScan_StoreFailureMarksScanFailed(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	s3 := &testutil.MockS3Service{}
	svc, _ := newTestService(repo, s3)

	id := uuid.New()
	repo.On("UpdateStatus", mock.Anything, id, models.StatusProcessing, mock.AnythingOfType("int")).Return(nil)
	repo.On("StoreRecord", mock.Anything, id, mock.AnythingOfType("*scan.Record")).Return(errors.New("disk full"))
	repo.On("UpdateError", mock.Anything, id, "Failed to save scan results").Return(nil)

	_, err := svc.IngestScan(context.Background(), id, testutil.ScanText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store scan record")

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, id, models.StatusCompleted, 100)
	s3.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFilterScan(t *testing.T) {
	record, err := scan.Parse(testutil.ScanText)
	require.NoError(t, err)

	repo := &testutil.MockScanRepository{}
	svc, m := newTestService(repo, &testutil.MockS3Service{})

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String(), Status: models.StatusCompleted}, nil)
	repo.On("GetRecord", mock.Anything, id).Return(record, nil)
	repo.On("StoreFilterResult", mock.Anything, mock.AnythingOfType("*models.FilterResult")).Return(nil)

	result, err := svc.FilterScan(context.Background(), id, 1, 6)
	require.NoError(t, err)

	want, err := spectral.Filter(record.Combined, 1, 6)
	require.NoError(t, err)
	assert.Equal(t, id.String(), result.ScanID)
	assert.Equal(t, 1, result.Low)
	assert.Equal(t, 6, result.High)
	assert.InDeltaSlice(t, want, result.Processed, 1e-12)
	assert.Equal(t, svc.now(), result.CreatedAt)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.FilterRuns.WithLabelValues(metrics.ResultOK)))

	// The stored record is left untouched.
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, record.Combined)
	repo.AssertExpectations(t)
}

func TestFilterScan_InvalidRange(t *testing.T) {
	record, err := scan.Parse(testutil.ScanText)
	require.NoError(t, err)

	repo := &testutil.MockScanRepository{}
	svc, m := newTestService(repo, &testutil.MockS3Service{})

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String(), Status: models.StatusCompleted}, nil)
	repo.On("GetRecord", mock.Anything, id).Return(record, nil)

	_, err = svc.FilterScan(context.Background(), id, 5, 2)
	var rangeErr *spectral.InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.FilterRuns.WithLabelValues(metrics.ResultInvalid)))
	repo.AssertNotCalled(t, "StoreFilterResult", mock.Anything, mock.Anything)
}

func TestFilterScan_NotReady(t *testing.T) {
	repo := &testutil.MockScanRepository{}
	svc, _ := newTestService(repo, &testutil.MockS3Service{})

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String(), Status: models.StatusPending}, nil)

	_, err := svc.FilterScan(context.Background(), id, 0, 4)
	assert.ErrorIs(t, err, ErrNotReady)
	repo.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything)
}
