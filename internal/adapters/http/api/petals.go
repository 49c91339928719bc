package api

import (
	"context"
	"net/http"

	"github.com/okian/floradex/pkg/logger"
)

// PetalDependencies defines the interface for petal count aggregates.
type PetalDependencies interface {
	Aggregate(ctx context.Context, genus, species, kind string) (*float64, error)
}

// PetalsHandler handles petal aggregate requests.
type PetalsHandler struct {
	deps   PetalDependencies
	logger logger.Logger
}

// NewPetalsHandler creates a new petals handler.
func NewPetalsHandler(deps PetalDependencies) *PetalsHandler {
	return &PetalsHandler{deps: deps, logger: logger.Named("api.petals")}
}

// HandleAggregate handles GET /flowers/{genus}/{species}/petals/{kind}.
// The body is a bare number, or null when nothing matched.
func (h *PetalsHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	const op = "api.aggregate_petals"
	v, err := h.deps.Aggregate(r.Context(), r.PathValue("genus"), r.PathValue("species"), r.PathValue("kind"))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
