package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/version"
)

// SystemHandler serves liveness and build information.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse is the body of GET /api/system/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Ledger  string `json:"ledger"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

// Health reports whether the ledger store can be queried.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unhealthy",
			Ledger:  "unavailable",
			Version: version.Version,
			Error:   err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Ledger:  "available",
		Version: version.Version,
	})
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	info, err := h.systemService.CheckVersion()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetVersionInfo.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, info)
}
