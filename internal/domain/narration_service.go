package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/saga_tts/internal/error_notificator"
	"github.com/Vovarama1992/saga_tts/internal/observe"
	"github.com/Vovarama1992/saga_tts/internal/ports"
	"github.com/Vovarama1992/saga_tts/internal/speech"
	"github.com/Vovarama1992/saga_tts/internal/textrules"
	"github.com/Vovarama1992/saga_tts/internal/voices"
)

const serviceName = "saga_tts"

type NarrationDeps struct {
	Registry *voices.Registry
	Policy   *voices.Policy
	Speech   ports.SpeechService
	Storage  ports.S3Service
	Rules    textrules.Service

	Notifier error_notificator.Notificator
	Log      *logger.ZapLogger
	Metrics  *observe.Metrics

	// SkipCharacter matches characters that never get audio (sound cues, stage directions).
	SkipCharacter *regexp.Regexp
}

type narrationService struct {
	NarrationDeps
}

func NewNarrationService(deps NarrationDeps) ports.NarrationService {
	return &narrationService{NarrationDeps: deps}
}

func (s *narrationService) Speak(ctx context.Context, in ports.SpeakInput) (*ports.SpeakResult, error) {
	character := strings.TrimSpace(in.Character)
	text := strings.TrimSpace(in.Text)
	if character == "" || text == "" {
		s.Metrics.RecordRequest(ctx, "missing_field")
		return nil, fmt.Errorf("%w: character and text are required", ErrMissingField)
	}

	if s.SkipCharacter != nil && s.SkipCharacter.MatchString(character) {
		s.Metrics.RecordRequest(ctx, "skipped")
		return &ports.SpeakResult{Skipped: true, Character: character}, nil
	}

	voice, err := s.resolveVoice(ctx, character, in)
	if err != nil {
		s.Metrics.RecordRequest(ctx, outcome(err))
		return nil, err
	}

	spoken := text
	if s.Rules != nil {
		if spoken, err = s.Rules.Process(ctx, text); err != nil {
			s.Metrics.RecordRequest(ctx, "rules_failed")
			return nil, fmt.Errorf("pronunciation rules: %w", err)
		}
	}

	started := time.Now()
	audio, err := s.Speech.Synthesize(ctx, spoken, voice)
	s.Metrics.RecordSynth(ctx, s.Speech.Provider(), time.Since(started), len(audio))
	if err != nil {
		s.report(ctx, "speech", err, fmt.Sprintf("character=%s voice=%s", character, voice))
		s.Metrics.RecordRequest(ctx, "synthesis_failed")
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}
	if len(audio) == 0 {
		s.report(ctx, "speech", speech.ErrEmptyAudio, fmt.Sprintf("character=%s voice=%s", character, voice))
		s.Metrics.RecordRequest(ctx, "synthesis_failed")
		return nil, fmt.Errorf("%w: %w", ErrSynthesisFailed, speech.ErrEmptyAudio)
	}

	started = time.Now()
	url, err := s.Storage.SaveAudio(ctx, character, audio, speech.ContentTypeMP3)
	s.Metrics.RecordStorage(ctx, time.Since(started))
	if err != nil {
		s.report(ctx, "storage", err, fmt.Sprintf("character=%s size=%s", character, humanize.Bytes(uint64(len(audio)))))
		s.Metrics.RecordRequest(ctx, "storage_failed")
		return nil, fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}

	res := &ports.SpeakResult{
		AudioURL:  url,
		VoiceUsed: voice,
		Character: character,
	}
	if d, err := speech.AudioDuration(audio); err == nil {
		res.DurationMs = d.Milliseconds()
	}

	s.log("info", fmt.Sprintf("[narration] %s spoke %s as %s", character, humanize.Bytes(uint64(len(audio))), voice), nil)
	s.Metrics.RecordRequest(ctx, "ok")

	return res, nil
}

// resolveVoice applies an explicit override, then the registry, then the policy.
func (s *narrationService) resolveVoice(ctx context.Context, character string, in ports.SpeakInput) (string, error) {
	if override := strings.TrimSpace(in.Voice); override != "" {
		if err := s.Registry.Assign(character, override); err != nil {
			return "", err
		}
		return override, nil
	}

	hint := strings.TrimSpace(in.Description)
	if hint == "" {
		hint = in.Text
	}

	var picked voices.Assignment
	voice, created, err := s.Registry.ResolveOrAssign(character, func() (string, error) {
		a, err := s.Policy.Assign(character, hint)
		picked = a
		return a.Voice, err
	})
	if err != nil {
		if errors.Is(err, voices.ErrConfiguration) {
			s.report(ctx, "voices", err, "character="+character)
		}
		return "", err
	}

	if created {
		s.Metrics.RecordAssignment(ctx, string(s.Policy.Mode()), picked.Reserved)
		msg := fmt.Sprintf("[narration] assigned %s to %s", voice, character)
		if picked.Gender != "" {
			msg += fmt.Sprintf(" (%s)", picked.Gender)
		}
		s.log("info", msg, nil)
	}

	return voice, nil
}

func (s *narrationService) report(ctx context.Context, source string, err error, details string) {
	s.log("error", fmt.Sprintf("[narration] %s failed: %s", source, details), err)
	if s.Notifier != nil {
		_ = s.Notifier.Notify(ctx, source, err, details)
	}
}

func (s *narrationService) log(level, msg string, err error) {
	if s.Log == nil {
		return
	}
	s.Log.Log(logger.LogEntry{
		Level:   level,
		Message: msg,
		Service: serviceName,
		Error:   err,
	})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, voices.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, voices.ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}
