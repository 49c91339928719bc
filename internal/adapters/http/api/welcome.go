package api

import (
	"net/http"

	"github.com/okian/floradex/internal/domain/types"
)

// WelcomeDependencies defines the interface for the root greeting.
type WelcomeDependencies interface {
	Welcome() types.Welcome
}

// WelcomeHandler handles GET /.
type WelcomeHandler struct {
	deps WelcomeDependencies
}

// NewWelcomeHandler creates a new welcome handler.
func NewWelcomeHandler(deps WelcomeDependencies) *WelcomeHandler {
	return &WelcomeHandler{deps: deps}
}

// HandleWelcome handles GET / requests.
func (h *WelcomeHandler) HandleWelcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Welcome())
}
