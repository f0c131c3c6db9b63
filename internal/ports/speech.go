package ports

import "context"

// SpeechService turns a line of dialogue into encoded audio.
type SpeechService interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Provider() string
}
