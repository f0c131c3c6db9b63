package delivery

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/saga_tts/internal/domain"
	"github.com/Vovarama1992/saga_tts/internal/ports"
)

const maxBodyBytes = 1 << 20

type NarrationHandler struct {
	svc ports.NarrationService
	log *logger.ZapLogger
}

func NewNarrationHandler(svc ports.NarrationService, log *logger.ZapLogger) *NarrationHandler {
	return &NarrationHandler{svc: svc, log: log}
}

// POST /tts
// body: { "character": "Bramblewick", "text": "...", "voice"?: "ash", "description"?: "an old gnome" }
func (h *NarrationHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var in ports.SpeakInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	res, err := h.svc.Speak(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, domain.ErrMissingField) {
			writeError(w, status, "Missing character or text field.")
			return
		}
		if status >= http.StatusInternalServerError {
			h.log.Log(logger.LogEntry{
				Level:   "error",
				Message: fmt.Sprintf("[tts] %q failed", in.Character),
				Service: "saga_tts",
				Error:   err,
			})
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}
