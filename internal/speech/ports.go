package speech

import "context"

const ContentTypeMP3 = "audio/mpeg"

// Synthesizer turns one line of text into encoded audio spoken by voiceID.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Name() string
}
