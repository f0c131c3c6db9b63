package speech

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrEmptyAudio = errors.New("provider returned empty audio")

type Service struct {
	tts     Synthesizer
	timeout time.Duration
}

func NewService(tts Synthesizer, timeout time.Duration) *Service {
	return &Service{
		tts:     tts,
		timeout: timeout,
	}
}

func (s *Service) Provider() string {
	return s.tts.Name()
}

// Synthesize calls the provider with the configured deadline and rejects empty audio.
func (s *Service) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	audio, err := s.tts.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.tts.Name(), err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%s: %w", s.tts.Name(), ErrEmptyAudio)
	}

	return audio, nil
}
