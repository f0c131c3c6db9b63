package delivery

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/saga_tts/internal/domain"
	"github.com/Vovarama1992/saga_tts/internal/voices"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain sentinels to HTTP codes. Input problems are 4xx,
// collaborator failures 502, anything unrecognised 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, voices.ErrInvalidInput),
		errors.Is(err, voices.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSynthesisFailed),
		errors.Is(err, domain.ErrStorageFailed):
		return http.StatusBadGateway
	default:
		// includes voices.ErrConfiguration: a bad pool found while serving
		return http.StatusInternalServerError
	}
}
