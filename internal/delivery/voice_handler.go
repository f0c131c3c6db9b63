package delivery

import (
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/saga_tts/internal/voices"
)

type VoiceHandler struct {
	registry *voices.Registry
	policy   *voices.Policy
	log      *logger.ZapLogger
}

func NewVoiceHandler(registry *voices.Registry, policy *voices.Policy, log *logger.ZapLogger) *VoiceHandler {
	return &VoiceHandler{registry: registry, policy: policy, log: log}
}

// GET /voices
func (h *VoiceHandler) Export(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"voices": h.registry.ExportAll()})
}

// POST /voices/import
// body: { "voices": { "Bramblewick": "ash", ... } }
func (h *VoiceHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid voice mapping")
		return
	}

	var req struct {
		Voices json.RawMessage `json:"voices"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid voice mapping")
		return
	}

	if err := h.registry.ImportJSON(req.Voices); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "[voices] import rejected", Service: "saga_tts", Error: err})
		writeError(w, statusFor(err), "Invalid voice mapping")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Voices imported successfully",
		"voices":  h.registry.ExportAll(),
	})
}

// GET /voices/library
func (h *VoiceHandler) Library(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    h.policy.Mode(),
		"library": h.policy.Library(),
	})
}
