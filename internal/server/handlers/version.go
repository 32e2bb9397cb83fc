package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ltilibrary/lti-go/internal/version"
)

// HandleVersion godoc
//
//	@Summary		Get version information
//	@Description	Returns the version and build information for the service
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	VersionResponse	"Version information"
//	@Router			/version [get]
func HandleVersion(info version.Info) http.HandlerFunc {
	response := VersionResponse{
		Version:   info.Version,
		BuildDate: info.BuildDate,
		GitCommit: info.GitCommit,
		Service:   "lti-server",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode version", http.StatusInternalServerError)
			return
		}
	}
}

type VersionResponse struct {
	Version   string `json:"version" example:"1.0.0"`
	BuildDate string `json:"build_date" example:"2026-01-28T10:00:00Z"`
	GitCommit string `json:"git_commit" example:"4f2c1e9"`
	Service   string `json:"service" example:"lti-server"`
}
