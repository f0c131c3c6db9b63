package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vovarama1992/saga_tts/internal/health"
)

const banner = `Saga TTS API is live!

Available endpoints:
  POST /tts
  GET  /voices
  POST /voices/import
  GET  /voices/library
`

type Handlers struct {
	Narration *NarrationHandler
	Voices    *VoiceHandler
	TextRules *TextRuleHandler
	Health    *health.Handler

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// RegisterRoutes mounts every endpoint on r. ttsPerMinute limits POST /tts
// per client IP; zero disables the limit.
func RegisterRoutes(r chi.Router, h Handlers, ttsPerMinute int) {
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(banner))
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if h.Health != nil {
		h.Health.Routes(r)
	}
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- speech ---
		tts := pr.With()
		if ttsPerMinute > 0 {
			tts = pr.With(httprate.LimitByIP(ttsPerMinute, time.Minute))
		}
		tts.Post("/tts", h.Narration.Speak)

		// --- voices ---
		pr.Get("/voices", h.Voices.Export)
		pr.Post("/voices/import", h.Voices.Import)
		pr.Get("/voices/library", h.Voices.Library)

		// --- pronunciation ---
		if h.TextRules != nil {
			pr.Get("/text-rules/letters", h.TextRules.ListLetterRules)
			pr.Post("/text-rules/letters", h.TextRules.AddLetterRule)
			pr.Delete("/text-rules/letters", h.TextRules.DeleteLetterRule)
			pr.Get("/text-rules/words", h.TextRules.ListWordRules)
			pr.Post("/text-rules/words", h.TextRules.AddWordRule)
			pr.Delete("/text-rules/words", h.TextRules.DeleteWordRule)
		}
	})
}

// MetricsHandler serves the Prometheus registry the OTel exporter writes to.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
