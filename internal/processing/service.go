package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectraviewer/internal/metrics"
	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/internal/spectral"
	"github.com/RMahshie/spectraviewer/internal/storage"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

// ErrNotReady is returned when a scan has no parsed record yet.
var ErrNotReady = errors.New("scan has not been processed")

// ProcessingService turns uploaded scan files into stored records and filters them.
type ProcessingService interface {
	// ProcessScan downloads the scan's object and parses it. Parse failures
	// mark the scan failed and are not returned.
	ProcessScan(ctx context.Context, scanID uuid.UUID) error
	// IngestScan parses inline upload contents for an existing scan row.
	IngestScan(ctx context.Context, scanID uuid.UUID, contents string) (*scan.Record, error)
	// FilterScan runs the house filter over the scan's combined trace.
	FilterScan(ctx context.Context, scanID uuid.UUID, low, high int) (*models.FilterResult, error)
}

type processingService struct {
	s3         storage.S3Service
	repository repository.ScanRepository
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewProcessingService(s3Service storage.S3Service, repo repository.ScanRepository, m *metrics.Metrics) ProcessingService {
	return &processingService{
		s3:         s3Service,
		repository: repo,
		metrics:    m,
		now:        time.Now,
	}
}

func (s *processingService) ProcessScan(ctx context.Context, scanID uuid.UUID) error {
	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get scan details
	sc, err := s.repository.GetByID(ctx, scanID)
	if err != nil {
		return err
	}
	if sc.ObjectKey == nil {
		return s.fail(ctx, scanID, "Scan has no uploaded file")
	}

	// Step 3: Download from S3
	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusProcessing, 30); err != nil {
		return err
	}
	data, err := s.s3.DownloadFile(ctx, *sc.ObjectKey)
	if err != nil {
		log.Error().Err(err).Str("scanID", scanID.String()).Str("key", *sc.ObjectKey).Msg("Scan download failed")
		return s.fail(ctx, scanID, "Failed to download scan file")
	}

	// Step 4: Parse and store
	if _, err := s.parseAndStore(ctx, scanID, string(data)); err != nil {
		if isInputError(err) {
			return nil // status is already failed
		}
		return err
	}
	return nil
}

func (s *processingService) IngestScan(ctx context.Context, scanID uuid.UUID, contents string) (*scan.Record, error) {
	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusProcessing, 10); err != nil {
		return nil, err
	}

	record, err := s.parseAndStore(ctx, scanID, contents)
	if err != nil {
		if !isInputError(err) {
			log.Error().Err(err).Str("scanID", scanID.String()).Msg("Inline scan could not be saved")
			if failErr := s.fail(ctx, scanID, "Failed to save scan results"); failErr != nil {
				log.Error().Err(failErr).Str("scanID", scanID.String()).Msg("Failed to mark scan as failed")
			}
		}
		return nil, err
	}

	// Keep the raw file next to presigned uploads; parsing has already succeeded.
	text, _ := scan.DecodeUpload(contents)
	key := storage.ScanKey(scanID.String())
	if err := s.s3.UploadFile(ctx, key, "text/plain", []byte(text)); err != nil {
		log.Warn().Err(err).Str("scanID", scanID.String()).Msg("Failed to archive raw scan file")
	}

	return record, nil
}

// parseAndStore decodes, parses and stores a record, then marks the scan completed.
// Input errors mark the scan failed and are returned unchanged.
func (s *processingService) parseAndStore(ctx context.Context, scanID uuid.UUID, contents string) (*scan.Record, error) {
	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusProcessing, 50); err != nil {
		return nil, err
	}

	start := s.now()
	record, err := scan.ParseUpload(contents)
	s.metrics.ParseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ScansParsed.WithLabelValues(parseResult(err)).Inc()
		log.Info().Err(err).Str("scanID", scanID.String()).Msg("Rejected scan upload")
		if failErr := s.fail(ctx, scanID, err.Error()); failErr != nil {
			return nil, failErr
		}
		return nil, err
	}
	s.metrics.ScansParsed.WithLabelValues(metrics.ResultOK).Inc()
	s.metrics.ScanPoints.Observe(float64(record.Settings.PointCount))

	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusProcessing, 80); err != nil {
		return nil, err
	}
	if err := s.repository.StoreRecord(ctx, scanID, record); err != nil {
		return nil, fmt.Errorf("failed to store scan record: %w", err)
	}

	if err := s.repository.UpdateStatus(ctx, scanID, models.StatusCompleted, 100); err != nil {
		return nil, err
	}

	log.Info().
		Str("scanID", scanID.String()).
		Int("scanNumber", record.Settings.ID).
		Int("points", record.Settings.PointCount).
		Bool("fieldOn", record.HasFieldOn()).
		Msg("Scan parsed")
	return record, nil
}

func (s *processingService) FilterScan(ctx context.Context, scanID uuid.UUID, low, high int) (*models.FilterResult, error) {
	sc, err := s.repository.GetByID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if sc.Status != models.StatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrNotReady, sc.Status)
	}

	record, err := s.repository.GetRecord(ctx, scanID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	processed, err := spectral.Filter(record.Combined, low, high)
	s.metrics.FilterDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var rangeErr *spectral.InvalidRangeError
		if errors.As(err, &rangeErr) {
			s.metrics.FilterRuns.WithLabelValues(metrics.ResultInvalid).Inc()
		} else {
			s.metrics.FilterRuns.WithLabelValues(metrics.ResultError).Inc()
		}
		return nil, err
	}
	s.metrics.FilterRuns.WithLabelValues(metrics.ResultOK).Inc()

	result := &models.FilterResult{
		ID:        uuid.New().String(),
		ScanID:    sc.ID,
		Low:       low,
		High:      high,
		Processed: processed,
		CreatedAt: s.now(),
	}
	if err := s.repository.StoreFilterResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store filter result: %w", err)
	}

	log.Info().Str("scanID", sc.ID).Int("low", low).Int("high", high).Msg("Scan filtered")
	return result, nil
}

func (s *processingService) fail(ctx context.Context, scanID uuid.UUID, msg string) error {
	if err := s.repository.UpdateError(ctx, scanID, msg); err != nil {
		return fmt.Errorf("failed to record scan error: %w", err)
	}
	return nil
}

func isInputError(err error) bool {
	var malformedErr *scan.MalformedScanError
	var decodeErr *scan.DecodeError
	return errors.As(err, &malformedErr) || errors.As(err, &decodeErr)
}

func parseResult(err error) string {
	var malformedErr *scan.MalformedScanError
	var decodeErr *scan.DecodeError
	switch {
	case errors.As(err, &malformedErr):
		return metrics.ResultMalformed
	case errors.As(err, &decodeErr):
		return metrics.ResultDecode
	default:
		return metrics.ResultError
	}
}
