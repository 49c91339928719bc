package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/okian/floradex/pkg/logger"
)

// FlowerDependencies defines the interface for listing and storing observations.
type FlowerDependencies interface {
	ListAll(ctx context.Context) ([]Record, error)
	ListByGenus(ctx context.Context, genus string) ([]Record, error)
	ListBySpecies(ctx context.Context, genus, species string) ([]Record, error)
	Insert(ctx context.Context, body []byte) (map[string]any, error)
}

// FlowersHandler handles /flowers requests.
type FlowersHandler struct {
	deps         FlowerDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewFlowersHandler creates a new flowers handler.
func NewFlowersHandler(deps FlowerDependencies, maxBodyBytes int64) *FlowersHandler {
	return &FlowersHandler{
		deps:         deps,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.Named("api.flowers"),
	}
}

// HandleListAll handles GET /flowers requests.
func (h *FlowersHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_flowers"
	rows, err := h.deps.ListAll(r.Context())
	h.respond(w, r, op, rows, err)
}

// HandleListGenus handles GET /flowers/{genus} requests.
func (h *FlowersHandler) HandleListGenus(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_genus"
	rows, err := h.deps.ListByGenus(r.Context(), r.PathValue("genus"))
	h.respond(w, r, op, rows, err)
}

// HandleListSpecies handles GET /flowers/{genus}/{species} requests.
func (h *FlowersHandler) HandleListSpecies(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_species"
	rows, err := h.deps.ListBySpecies(r.Context(), r.PathValue("genus"), r.PathValue("species"))
	h.respond(w, r, op, rows, err)
}

func (h *FlowersHandler) respond(w http.ResponseWriter, r *http.Request, op string, rows []Record, err error) {
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandlePut handles PUT /flowers requests and echoes the stored payload.
func (h *FlowersHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_flower"
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", NewKind(op, ErrPayloadTooLarge))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	payload, err := h.deps.Insert(r.Context(), body)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
