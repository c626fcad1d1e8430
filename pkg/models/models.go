package models

import (
	"time"

	"github.com/RMahshie/spectraviewer/internal/scan"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// CreateScanRequestBody describes a scan file the client is about to upload
type CreateScanRequestBody struct {
	SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
	Filename  string `json:"filename" maxLength:"255" required:"true" doc:"Original scan file name"`
	FileSize  int64  `json:"file_size" minimum:"1" required:"true" doc:"Scan file size in bytes"`
	MimeType  string `json:"mime_type" enum:"text/plain,application/octet-stream" required:"true" doc:"Scan file MIME type"`
}

// CreateScanRequest represents a request to create a scan and get an upload URL
type CreateScanRequest struct {
	Body CreateScanRequestBody
}

// CreateScanResponseBody is the body of the create scan response
type CreateScanResponseBody struct {
	ID        string `json:"id" doc:"Scan unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed S3 URL for file upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateScanResponse represents the response from creating a scan
type CreateScanResponse struct {
	Body CreateScanResponseBody
}

// UploadScanRequestBody carries scan content inline
type UploadScanRequestBody struct {
	SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
	Filename  string `json:"filename" maxLength:"255" required:"true" doc:"Original scan file name"`
	Contents  string `json:"contents" minLength:"1" required:"true" doc:"Scan text, or a base64 data URL as produced by a browser file input"`
}

// UploadScanRequest represents an inline scan upload that is parsed immediately
type UploadScanRequest struct {
	Body UploadScanRequestBody
}

// ScanIDRequest addresses a single scan by ID
type ScanIDRequest struct {
	ID string `path:"id" doc:"Scan ID"`
}

// GetScanStatusResponseBody is the body of the status response
type GetScanStatusResponseBody struct {
	ID       string `json:"id" doc:"Scan ID"`
	Status   string `json:"status" enum:"pending,processing,completed,failed" doc:"Scan status"`
	Progress int    `json:"progress" minimum:"0" maximum:"100" doc:"Processing progress percentage"`
	Message  string `json:"message,omitempty" doc:"Human-readable status message"`
	Error    string `json:"error,omitempty" doc:"Failure reason when status is failed"`
}

// GetScanStatusResponse represents the current status of a scan
type GetScanStatusResponse struct {
	Body GetScanStatusResponseBody
}

// ScanResponseBody is a parsed scan ready for plotting
type ScanResponseBody struct {
	ID            string        `json:"id" doc:"Scan ID"`
	SessionID     string        `json:"session_id" doc:"Owning session"`
	Filename      string        `json:"filename" doc:"Original scan file name"`
	Settings      scan.Settings `json:"settings" doc:"Header and parameter block values"`
	FrequencyData []Series      `json:"frequency_data" doc:"Frequency domain traces"`
	TimeData      []Series      `json:"time_data" doc:"Transform domain traces over sample index"`
	DownloadURL   string        `json:"download_url,omitempty" doc:"Pre-signed URL of the raw scan file"`
	CreatedAt     time.Time     `json:"created_at" doc:"Upload timestamp"`
}

// ScanResponse represents a parsed scan
type ScanResponse struct {
	Body ScanResponseBody
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// FilterScanRequest selects the transform-domain index range to keep
type FilterScanRequest struct {
	ID   string `path:"id" doc:"Scan ID"`
	Body struct {
		Low  *int `json:"low,omitempty" minimum:"0" doc:"Low index cutoff, defaults to 0"`
		High *int `json:"high,omitempty" minimum:"0" doc:"High index cutoff, defaults to the configured value"`
	} `required:"false"`
}

// FilterResultBody is a processed trace on the scan's frequency axis
type FilterResultBody struct {
	ID        string    `json:"id" doc:"Filter result ID"`
	ScanID    string    `json:"scan_id" doc:"Scan ID"`
	Low       int       `json:"low" doc:"Low index cutoff"`
	High      int       `json:"high" doc:"High index cutoff"`
	Processed Series    `json:"processed" doc:"Processed frequency signal"`
	CreatedAt time.Time `json:"created_at" doc:"When the filter ran"`
}

// FilterScanResponse represents a filter result
type FilterScanResponse struct {
	Body FilterResultBody
}

// ListSessionScansRequest lists the scans uploaded in a session
type ListSessionScansRequest struct {
	SessionID string `path:"session_id" doc:"Client session identifier"`
}

// ScanSummary is a scan without its traces
type ScanSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSessionScansResponse represents the scans of a session, newest first
type ListSessionScansResponse struct {
	Body struct {
		Scans []ScanSummary `json:"scans" doc:"Scans, newest first"`
	}
}

// MessageResponse carries a plain confirmation message
type MessageResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}
