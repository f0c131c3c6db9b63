package ports

import "context"

type SpeakInput struct {
	Character   string `json:"character"`
	Text        string `json:"text"`
	Voice       string `json:"voice,omitempty"`
	Description string `json:"description,omitempty"`
}

type SpeakResult struct {
	Skipped    bool   `json:"skipped,omitempty"`
	AudioURL   string `json:"audioUrl,omitempty"`
	VoiceUsed  string `json:"voiceUsed,omitempty"`
	Character  string `json:"character"`
	DurationMs int64  `json:"durationMs,omitempty"`
}

type NarrationService interface {
	Speak(ctx context.Context, in SpeakInput) (*SpeakResult, error)
}
