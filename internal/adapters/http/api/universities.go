package api

import (
	"context"
	"net/http"

	"github.com/okian/unirank/internal/domain/university"
)

// UniversitiesDependencies defines the interface for listing universities.
type UniversitiesDependencies interface {
	Universities(ctx context.Context) ([]university.Record, error)
}

// UniversitiesHandler handles unfiltered listing requests.
type UniversitiesHandler struct {
	deps UniversitiesDependencies
}

// NewUniversitiesHandler creates a new universities handler.
func NewUniversitiesHandler(deps UniversitiesDependencies) *UniversitiesHandler {
	return &UniversitiesHandler{deps: deps}
}

// HandleGetUniversities handles GET /universities requests.
func (h *UniversitiesHandler) HandleGetUniversities(w http.ResponseWriter, r *http.Request) {
	records, err := h.deps.Universities(r.Context())
	if err != nil {
		status, title := statusFor(err, titleUniversities)
		writeError(w, status, title, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
