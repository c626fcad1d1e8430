package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/spectraviewer/internal/processing"
	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/internal/spectral"
	"github.com/RMahshie/spectraviewer/internal/storage"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

const uploadURLExpiry = 15 * time.Minute

// Options tunes request validation and filter defaults.
type Options struct {
	MaxUploadBytes int64
	DefaultHigh    int
}

// ScanHandler handles scan-related HTTP requests
type ScanHandler struct {
	repo          repository.ScanRepository
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
	opts          Options
}

// NewScanHandler creates a new scan handler
func NewScanHandler(repo repository.ScanRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService, opts Options) *ScanHandler {
	if opts.DefaultHigh == 0 {
		opts.DefaultHigh = spectral.DefaultHigh
	}
	return &ScanHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
		opts:          opts,
	}
}

// CreateScan creates a scan record and returns a presigned upload URL
func (h *ScanHandler) CreateScan(ctx context.Context, req *models.CreateScanRequest) (*models.CreateScanResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("filename", req.Body.Filename).Msg("Creating new scan")

	if h.opts.MaxUploadBytes > 0 && req.Body.FileSize > h.opts.MaxUploadBytes {
		return nil, huma.Error400BadRequest("Scan file too large.", nil)
	}

	scanID := uuid.New()
	key := storage.ScanKey(scanID.String())

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, key, req.Body.MimeType)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}

	now := time.Now()
	sc := &models.Scan{
		ID:        scanID.String(),
		SessionID: req.Body.SessionID,
		Filename:  req.Body.Filename,
		Status:    models.StatusPending,
		ObjectKey: &key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(ctx, sc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create scan", err)
	}

	log.Info().Str("scanID", sc.ID).Str("sessionID", sc.SessionID).Msg("Scan created, returning upload URL")
	return &models.CreateScanResponse{
		Body: models.CreateScanResponseBody{
			ID:        sc.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(uploadURLExpiry.Seconds()),
		},
	}, nil
}

// UploadScan stores and parses scan content sent inline
func (h *ScanHandler) UploadScan(ctx context.Context, req *models.UploadScanRequest) (*models.ScanResponse, error) {
	if h.opts.MaxUploadBytes > 0 && int64(len(req.Body.Contents)) > h.opts.MaxUploadBytes {
		return nil, huma.Error400BadRequest("Scan file too large.", nil)
	}

	now := time.Now()
	sc := &models.Scan{
		ID:        uuid.New().String(),
		SessionID: req.Body.SessionID,
		Filename:  req.Body.Filename,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.repo.Create(ctx, sc); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create scan", err)
	}
	log.Info().Str("scanID", sc.ID).Str("sessionID", sc.SessionID).Int("bytes", len(req.Body.Contents)).Msg("Inline scan upload received")

	record, err := h.processingSvc.IngestScan(ctx, uuid.MustParse(sc.ID), req.Body.Contents)
	if err != nil {
		return nil, toHTTPError(err, "Failed to process scan")
	}

	sc.Status = models.StatusCompleted
	return &models.ScanResponse{Body: buildScanBody(sc, record, "")}, nil
}

// StartProcessing starts background processing of a presigned upload
func (h *ScanHandler) StartProcessing(ctx context.Context, req *models.ScanIDRequest) (*models.StartProcessingResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	if _, err := h.repo.GetByID(ctx, scanID); err != nil {
		return nil, toHTTPError(err, "Failed to load scan")
	}

	// Start processing in background (don't wait for completion)
	log.Info().Str("scanID", scanID.String()).Msg("Starting background processing goroutine")
	go func() {
		if err := h.processingSvc.ProcessScan(context.Background(), scanID); err != nil {
			log.Error().Err(err).Str("scanID", scanID.String()).Msg("Scan processing failed")
			if updateErr := h.repo.UpdateError(context.Background(), scanID, fmt.Sprintf("Processing failed: %v", err)); updateErr != nil {
				log.Error().Err(updateErr).Str("scanID", scanID.String()).Msg("Failed to record processing error")
			}
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// GetScanStatus returns the current status of a scan
func (h *ScanHandler) GetScanStatus(ctx context.Context, req *models.ScanIDRequest) (*models.GetScanStatusResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	sc, err := h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load scan")
	}

	body := models.GetScanStatusResponseBody{
		ID:       sc.ID,
		Status:   sc.Status,
		Progress: sc.Progress,
		Message:  generateStatusMessage(sc.Status, sc.Progress),
	}
	if sc.ErrorMsg != nil {
		body.Error = *sc.ErrorMsg
	}
	return &models.GetScanStatusResponse{Body: body}, nil
}

// GetScan returns a parsed scan as plot-ready series
func (h *ScanHandler) GetScan(ctx context.Context, req *models.ScanIDRequest) (*models.ScanResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	sc, err := h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load scan")
	}
	if sc.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Scan not yet processed", fmt.Errorf("scan status is %s", sc.Status))
	}

	record, err := h.repo.GetRecord(ctx, scanID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load scan record")
	}

	var downloadURL string
	if sc.ObjectKey != nil {
		if downloadURL, err = h.s3Service.GenerateDownloadURL(ctx, *sc.ObjectKey); err != nil {
			log.Warn().Err(err).Str("scanID", sc.ID).Msg("Failed to sign download URL")
			downloadURL = ""
		}
	}

	return &models.ScanResponse{Body: buildScanBody(sc, record, downloadURL)}, nil
}

// FilterScan runs the house filter over the scan's combined trace
func (h *ScanHandler) FilterScan(ctx context.Context, req *models.FilterScanRequest) (*models.FilterScanResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	low, high := spectral.DefaultLow, h.opts.DefaultHigh
	if req.Body.Low != nil {
		low = *req.Body.Low
	}
	if req.Body.High != nil {
		high = *req.Body.High
	}

	result, err := h.processingSvc.FilterScan(ctx, scanID, low, high)
	if err != nil {
		return nil, toHTTPError(err, "Failed to filter scan")
	}

	return h.filterResponse(ctx, scanID, result)
}

// GetFilteredScan returns the most recent filter result of a scan
func (h *ScanHandler) GetFilteredScan(ctx context.Context, req *models.ScanIDRequest) (*models.FilterScanResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	result, err := h.repo.GetLatestFilterResult(ctx, scanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Scan has not been filtered", err)
		}
		return nil, huma.Error500InternalServerError("Failed to load filter result", err)
	}

	return h.filterResponse(ctx, scanID, result)
}

func (h *ScanHandler) filterResponse(ctx context.Context, scanID uuid.UUID, result *models.FilterResult) (*models.FilterScanResponse, error) {
	record, err := h.repo.GetRecord(ctx, scanID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load scan record")
	}

	return &models.FilterScanResponse{
		Body: models.FilterResultBody{
			ID:        result.ID,
			ScanID:    result.ScanID,
			Low:       result.Low,
			High:      result.High,
			Processed: models.Series{Name: "Processed", X: record.Frequency, Y: result.Processed},
			CreatedAt: result.CreatedAt,
		},
	}, nil
}

// ListSessionScans lists the scans uploaded in a session
func (h *ScanHandler) ListSessionScans(ctx context.Context, req *models.ListSessionScansRequest) (*models.ListSessionScansResponse, error) {
	scans, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list scans", err)
	}

	resp := &models.ListSessionScansResponse{}
	resp.Body.Scans = make([]models.ScanSummary, 0, len(scans))
	for _, sc := range scans {
		resp.Body.Scans = append(resp.Body.Scans, models.ScanSummary{
			ID:        sc.ID,
			Filename:  sc.Filename,
			Status:    sc.Status,
			Progress:  sc.Progress,
			CreatedAt: sc.CreatedAt,
		})
	}
	return resp, nil
}

// DeleteScan removes a scan and its raw file
func (h *ScanHandler) DeleteScan(ctx context.Context, req *models.ScanIDRequest) (*models.MessageResponse, error) {
	scanID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid scan ID", err)
	}

	sc, err := h.repo.GetByID(ctx, scanID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to load scan")
	}
	if err := h.repo.Delete(ctx, scanID); err != nil {
		return nil, toHTTPError(err, "Failed to delete scan")
	}

	if sc.ObjectKey != nil {
		if err := h.s3Service.DeleteFile(ctx, *sc.ObjectKey); err != nil {
			log.Warn().Err(err).Str("scanID", sc.ID).Msg("Failed to delete raw scan file")
		}
	}

	resp := &models.MessageResponse{}
	resp.Body.Message = "Scan deleted"
	return resp, nil
}

func buildScanBody(sc *models.Scan, record *scan.Record, downloadURL string) models.ScanResponseBody {
	return models.ScanResponseBody{
		ID:            sc.ID,
		SessionID:     sc.SessionID,
		Filename:      sc.Filename,
		Settings:      record.Settings,
		FrequencyData: frequencySeries(record),
		TimeData:      timeSeries(record),
		DownloadURL:   downloadURL,
		CreatedAt:     sc.CreatedAt,
	}
}

// frequencySeries returns the frequency-domain traces. Field-on traces are
// only included when the field-on data has a positive sum.
func frequencySeries(record *scan.Record) []models.Series {
	series := []models.Series{
		{Name: "Field Off", X: record.Frequency, Y: record.FieldOff},
	}
	if floats.Sum(record.FieldOn) > 0 {
		series = append(series,
			models.Series{Name: "Field On", X: record.Frequency, Y: record.FieldOn},
			models.Series{Name: "Off - On", X: record.Frequency, Y: record.Combined},
		)
	}
	return series
}

// timeSeries returns the transform traces over sample index, skipping those with a non-positive sum.
func timeSeries(record *scan.Record) []models.Series {
	index := make([]float64, len(record.Index))
	for i, v := range record.Index {
		index[i] = float64(v)
	}

	var series []models.Series
	for _, tr := range []struct {
		name string
		y    []float64
	}{
		{"OFF FFT", record.OffFFT},
		{"ON FFT", record.OnFFT},
	} {
		if floats.Sum(tr.y) > 0 {
			series = append(series, models.Series{Name: tr.name, X: index[:len(tr.y)], Y: tr.y})
		}
	}
	return series
}

// toHTTPError maps service and domain errors onto huma status errors
func toHTTPError(err error, fallback string) error {
	var malformedErr *scan.MalformedScanError
	var decodeErr *scan.DecodeError
	var rangeErr *spectral.InvalidRangeError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("Scan not found", err)
	case errors.As(err, &malformedErr), errors.As(err, &decodeErr):
		return huma.Error422UnprocessableEntity(err.Error(), err)
	case errors.As(err, &rangeErr):
		return huma.Error400BadRequest(err.Error(), err)
	case errors.Is(err, processing.ErrNotReady):
		return huma.Error409Conflict("Scan not yet processed", err)
	default:
		return huma.Error500InternalServerError(fallback, err)
	}
}

// generateStatusMessage creates a human-readable status message
func generateStatusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Waiting for scan upload..."
	case models.StatusProcessing:
		if progress < 30 {
			return "Starting processing..."
		} else if progress < 50 {
			return "Downloading scan file..."
		} else if progress < 80 {
			return "Parsing scan..."
		} else {
			return "Saving results..."
		}
	case models.StatusCompleted:
		return "Scan ready!"
	case models.StatusFailed:
		return "Scan could not be processed."
	default:
		return "Unknown status"
	}
}
