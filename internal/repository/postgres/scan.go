package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/scan"
	"github.com/RMahshie/spectraviewer/pkg/models"
)

// PostgresScanRepository implements ScanRepository for PostgreSQL
type PostgresScanRepository struct {
	db *sql.DB
}

// NewPostgresScanRepository creates a new PostgreSQL scan repository
func NewPostgresScanRepository(db *sql.DB) repository.ScanRepository {
	return &PostgresScanRepository{db: db}
}

const scanColumns = `id, session_id, filename, status, progress, object_key, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*models.Scan, error) {
	var s models.Scan
	var objectKey, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.Filename,
		&s.Status,
		&s.Progress,
		&objectKey,
		&errorMsg,
		&s.CreatedAt,
		&s.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if objectKey.Valid {
		s.ObjectKey = &objectKey.String
	}
	if errorMsg.Valid {
		s.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return &s, nil
}

// notFound maps a missing row onto repository.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// requireRow turns an update that touched nothing into repository.ErrNotFound.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Create inserts a new scan record
func (r *PostgresScanRepository) Create(ctx context.Context, s *models.Scan) error {
	query := `
		INSERT INTO scans (id, session_id, filename, status, progress, object_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SessionID,
		s.Filename,
		s.Status,
		s.Progress,
		s.ObjectKey,
		s.CreatedAt,
		s.UpdatedAt)

	return err
}

// GetByID retrieves a scan by ID
func (r *PostgresScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans WHERE id = $1`

	s, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetBySessionID retrieves scans by session ID, newest first
func (r *PostgresScanRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Scan, error) {
	query := `SELECT ` + scanColumns + `
		FROM scans
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scans []*models.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, s)
	}

	return scans, rows.Err()
}

// UpdateStatus updates the status and progress of a scan
func (r *PostgresScanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE scans
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	return requireRow(r.db.ExecContext(ctx, query, status, progress, id))
}

// UpdateError marks a scan failed with the given message
func (r *PostgresScanRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE scans
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return requireRow(r.db.ExecContext(ctx, query, errorMsg, id))
}

// Delete removes a scan together with its record and filter results
func (r *PostgresScanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM scans WHERE id = $1`, id))
}

// StoreRecord stores the parsed record of a scan, replacing any earlier one
func (r *PostgresScanRepository) StoreRecord(ctx context.Context, id uuid.UUID, record *scan.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal scan record: %w", err)
	}

	query := `
		INSERT INTO scan_records (scan_id, scan_number, point_count, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scan_id) DO UPDATE
		SET scan_number = EXCLUDED.scan_number, point_count = EXCLUDED.point_count,
		    record = EXCLUDED.record, created_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		id,
		record.Settings.ID,
		record.Settings.PointCount,
		string(data))

	return err
}

// GetRecord retrieves the parsed record of a scan
func (r *PostgresScanRepository) GetRecord(ctx context.Context, id uuid.UUID) (*scan.Record, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT record FROM scan_records WHERE scan_id = $1`, id).Scan(&data)
	if err != nil {
		return nil, notFound(err)
	}

	var record scan.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan record: %w", err)
	}
	return &record, nil
}

// StoreFilterResult stores one filter run
func (r *PostgresScanRepository) StoreFilterResult(ctx context.Context, result *models.FilterResult) error {
	processed, err := json.Marshal(result.Processed)
	if err != nil {
		return fmt.Errorf("failed to marshal processed signal: %w", err)
	}

	query := `
		INSERT INTO filter_results (id, scan_id, low, high, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		result.ID,
		result.ScanID,
		result.Low,
		result.High,
		string(processed),
		result.CreatedAt)

	return err
}

// GetLatestFilterResult retrieves the most recent filter run of a scan
func (r *PostgresScanRepository) GetLatestFilterResult(ctx context.Context, scanID uuid.UUID) (*models.FilterResult, error) {
	query := `
		SELECT id, scan_id, low, high, processed, created_at
		FROM filter_results
		WHERE scan_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var result models.FilterResult
	var processed []byte

	err := r.db.QueryRowContext(ctx, query, scanID).Scan(
		&result.ID,
		&result.ScanID,
		&result.Low,
		&result.High,
		&processed,
		&result.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	if err := json.Unmarshal(processed, &result.Processed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal processed signal: %w", err)
	}
	return &result, nil
}
