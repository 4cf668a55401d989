package handler

import "net/http"

// Health handles GET /health. The service reports degraded, not down, while
// model files are missing: session bookkeeping still works, only
// classification is refused.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	if h.cfg.Models != nil {
		resp.Models = h.cfg.Models.Snapshot()
		for _, available := range resp.Models {
			if !available {
				resp.Status = "degraded"
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
