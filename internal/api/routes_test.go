package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/spectraviewer/internal/api/handlers"
	"github.com/RMahshie/spectraviewer/internal/metrics"
	"github.com/RMahshie/spectraviewer/internal/processing"
	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/internal/spectral"
	"github.com/RMahshie/spectraviewer/internal/testutil"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *testutil.MockScanRepository, *testutil.MockS3Service) {
	_, api := humatest.New(t)
	repo := &testutil.MockScanRepository{}
	s3 := &testutil.MockS3Service{}
	proc := processing.NewProcessingService(s3, repo, metrics.New(prometheus.NewRegistry()))
	RegisterRoutes(api, repo, s3, proc, handlers.Options{MaxUploadBytes: 1 << 20})
	return api, repo, s3
}

func TestUploadScanRoute(t *testing.T) {
	api, repo, s3 := newTestAPI(t)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Scan")).Return(nil)
	repo.On("UpdateStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.Anything, mock.Anything).Return(nil)
	repo.On("StoreRecord", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.Anything).Return(nil)
	s3.On("UploadFile", mock.Anything, mock.Anything, "text/plain", []byte(testutil.ScanText)).Return(nil)

	contents := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.ScanText))
	resp := api.Post("/api/scans/upload", map[string]any{
		"session_id": "test-session-123",
		"filename":   "scan_0042.txt",
		"contents":   contents,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var body models.ScanResponseBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 42, body.Settings.ID)
	assert.Equal(t, 8, body.Settings.PointCount)
	require.Len(t, body.FrequencyData, 1)
	assert.InDeltaSlice(t, []float64{3992, 3994, 3996, 3998, 4000, 4002, 4004, 4006}, body.FrequencyData[0].X[:8], 1e-9)
	repo.AssertExpectations(t)
	s3.AssertExpectations(t)
}

func TestUploadScanRoute_Malformed(t *testing.T) {
	api, repo, _ := newTestAPI(t)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateError", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil)

	resp := api.Post("/api/scans/upload", map[string]any{
		"session_id": "test-session-123",
		"filename":   "broken.txt",
		"contents":   "Scan 1\r1000 2 oops 8\r*****",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	repo.AssertNotCalled(t, "StoreRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestFilterRoute_RejectsNegativeCutoff(t *testing.T) {
	api, _, _ := newTestAPI(t)

	resp := api.Post("/api/scans/"+uuid.NewString()+"/filter", map[string]any{"low": -1, "high": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetScanStatusRoute_NotFound(t *testing.T) {
	api, repo, _ := newTestAPI(t)
	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	resp := api.Get("/api/scans/" + id.String() + "/status")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestFilterRoute_NoBodyUsesDefaults(t *testing.T) {
	api, repo, _ := newTestAPI(t)
	id := uuid.New()
	record, err := scan.Parse(testutil.ScanText)
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, id).Return(&models.Scan{ID: id.String(), Status: models.StatusCompleted}, nil)
	repo.On("GetRecord", mock.Anything, id).Return(record, nil)
	repo.On("StoreFilterResult", mock.Anything, mock.AnythingOfType("*models.FilterResult")).Return(nil)

	resp := api.Post("/api/scans/" + id.String() + "/filter")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body models.FilterResultBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, spectral.DefaultLow, body.Low)
	assert.Equal(t, spectral.DefaultHigh, body.High)
	assert.Len(t, body.Processed.Y, 8)
	repo.AssertExpectations(t)
}
