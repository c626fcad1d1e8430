package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/spectraviewer/internal/api/handlers"
	"github.com/RMahshie/spectraviewer/internal/processing"
	"github.com/RMahshie/spectraviewer/internal/repository"
	"github.com/RMahshie/spectraviewer/internal/storage"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, scanRepo repository.ScanRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService, opts handlers.Options) {
	scanHandler := handlers.NewScanHandler(scanRepo, s3Service, processingSvc, opts)

	huma.Register(api, huma.Operation{
		OperationID: "createScan",
		Method:      http.MethodPost,
		Path:        "/api/scans",
		Summary:     "Create a new scan",
		Description: "Creates a scan record and returns a pre-signed upload URL for the raw file",
		Tags:        []string{"Scans"},
	}, scanHandler.CreateScan)

	huma.Register(api, huma.Operation{
		OperationID:   "uploadScan",
		Method:        http.MethodPost,
		Path:          "/api/scans/upload",
		Summary:       "Upload scan contents",
		Description:   "Parses scan text or a base64 data URL immediately and returns the plot-ready scan",
		Tags:          []string{"Scans"},
		DefaultStatus: http.StatusCreated,
	}, scanHandler.UploadScan)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/scans/{id}/process",
		Summary:     "Start processing scan",
		Description: "Starts downloading and parsing an uploaded scan file in the background",
		Tags:        []string{"Scans"},
	}, scanHandler.StartProcessing)

	huma.Register(api, huma.Operation{
		OperationID: "getScanStatus",
		Method:      http.MethodGet,
		Path:        "/api/scans/{id}/status",
		Summary:     "Get scan status",
		Description: "Returns the current status and progress of a scan",
		Tags:        []string{"Scans"},
	}, scanHandler.GetScanStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getScan",
		Method:      http.MethodGet,
		Path:        "/api/scans/{id}",
		Summary:     "Get scan",
		Description: "Returns scan settings with frequency and transform domain traces",
		Tags:        []string{"Scans"},
	}, scanHandler.GetScan)

	huma.Register(api, huma.Operation{
		OperationID: "deleteScan",
		Method:      http.MethodDelete,
		Path:        "/api/scans/{id}",
		Summary:     "Delete scan",
		Description: "Removes a scan, its parsed record, filter results and raw file",
		Tags:        []string{"Scans"},
	}, scanHandler.DeleteScan)

	huma.Register(api, huma.Operation{
		OperationID: "filterScan",
		Method:      http.MethodPost,
		Path:        "/api/scans/{id}/filter",
		Summary:     "Filter scan",
		Description: "Runs the house FFT filter over the combined trace between the low and high indices",
		Tags:        []string{"Filter"},
	}, scanHandler.FilterScan)

	huma.Register(api, huma.Operation{
		OperationID: "getFilteredScan",
		Method:      http.MethodGet,
		Path:        "/api/scans/{id}/filtered",
		Summary:     "Get filtered scan",
		Description: "Returns the most recent filter result of a scan",
		Tags:        []string{"Filter"},
	}, scanHandler.GetFilteredScan)

	huma.Register(api, huma.Operation{
		OperationID: "listSessionScans",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/scans",
		Summary:     "List session scans",
		Description: "Lists the scans uploaded in a session, newest first",
		Tags:        []string{"Scans"},
	}, scanHandler.ListSessionScans)
}
