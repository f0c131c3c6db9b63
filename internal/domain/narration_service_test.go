package domain_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/saga_tts/internal/domain"
	"github.com/Vovarama1992/saga_tts/internal/ports"
	"github.com/Vovarama1992/saga_tts/internal/textrules"
	"github.com/Vovarama1992/saga_tts/internal/voices"
)

type fakeSpeech struct {
	mu     sync.Mutex
	calls  int
	texts  []string
	voices []string
	audio  []byte
	fail   bool
}

func (f *fakeSpeech) Provider() string { return "fake" }

func (f *fakeSpeech) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voiceID)
	if f.fail {
		return nil, errors.New("provider unavailable")
	}
	if f.audio != nil {
		return f.audio, nil
	}
	return []byte("ID3fake-mp3"), nil
}

type fakeStorage struct {
	mu    sync.Mutex
	calls int
	names []string
	fail  bool
}

func (f *fakeStorage) ObjectKey(character string, _ time.Time) string {
	return "tts/" + character + ".mp3"
}

func (f *fakeStorage) SaveAudio(_ context.Context, character string, _ []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.names = append(f.names, character)
	if f.fail {
		return "", errors.New("bucket gone")
	}
	return "https://cdn.example.com/" + f.ObjectKey(character, time.Time{}), nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sources []string
}

func (f *fakeNotifier) Notify(_ context.Context, source string, _ error, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sources = append(f.sources, source)
	return nil
}

type fixture struct {
	svc      ports.NarrationService
	registry *voices.Registry
	speech   *fakeSpeech
	storage  *fakeStorage
	notifier *fakeNotifier
}

func newFixture(t *testing.T, mode voices.Mode, mutate func(*domain.NarrationDeps)) *fixture {
	t.Helper()

	policy, err := voices.NewPolicy(mode, voices.DefaultOpenAILibrary())
	require.NoError(t, err)

	f := &fixture{
		registry: voices.NewRegistry(),
		speech:   &fakeSpeech{},
		storage:  &fakeStorage{},
		notifier: &fakeNotifier{},
	}
	deps := domain.NarrationDeps{
		Registry: f.registry,
		Policy:   policy,
		Speech:   f.speech,
		Storage:  f.storage,
		Rules:    textrules.NewService(textrules.NewMemoryRepo(nil, nil)),
		Notifier: f.notifier,
		Log:      logger.NewZapLogger(zap.NewNop().Sugar()),
	}
	if mutate != nil {
		mutate(&deps)
	}
	f.svc = domain.NewNarrationService(deps)

	return f
}

func TestSpeak_SameCharacterKeepsVoice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	ctx := context.Background()

	first, err := f.svc.Speak(ctx, ports.SpeakInput{Character: "Bramblewick", Text: "Hello there."})
	require.NoError(t, err)
	second, err := f.svc.Speak(ctx, ports.SpeakInput{Character: "bramblewick ", Text: "Again."})
	require.NoError(t, err)

	assert.Equal(t, first.VoiceUsed, second.VoiceUsed)
	assert.Equal(t, "Bramblewick", first.Character)
	assert.Equal(t, "https://cdn.example.com/tts/Bramblewick.mp3", first.AudioURL)
	assert.False(t, first.Skipped)
	assert.Equal(t, map[string]string{"Bramblewick": first.VoiceUsed}, f.registry.ExportAll())
	assert.Equal(t, []string{first.VoiceUsed, first.VoiceUsed}, f.speech.voices)
}

func TestSpeak_ReservedNarrator(t *testing.T) {
	t.Parallel()

	for _, mode := range []voices.Mode{voices.ModeHash, voices.ModeGender, voices.ModeRandom} {
		f := newFixture(t, mode, nil)

		res, err := f.svc.Speak(context.Background(), ports.SpeakInput{
			Character:   "SAGA",
			Text:        "The road bends north.",
			Description: "an old king",
		})
		require.NoError(t, err)
		assert.Equal(t, "verse", res.VoiceUsed, mode)
	}
}

func TestSpeak_MissingFieldCallsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)

	for _, in := range []ports.SpeakInput{
		{Text: "Hello"},
		{Character: "Bramblewick"},
		{Character: "  ", Text: "Hello"},
		{Character: "Bramblewick", Text: " \n"},
	} {
		_, err := f.svc.Speak(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrMissingField)
	}

	assert.Zero(t, f.speech.calls)
	assert.Zero(t, f.storage.calls)
	assert.Zero(t, f.registry.Len())
}

func TestSpeak_SkipPattern(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, func(d *domain.NarrationDeps) {
		d.SkipCharacter = regexp.MustCompile(`(?i)^(sfx|music)$`)
	})

	res, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "SFX", Text: "door creaks"})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "SFX", res.Character)
	assert.Empty(t, res.AudioURL)
	assert.Zero(t, f.speech.calls)
	assert.Zero(t, f.registry.Len())
}

func TestSpeak_ExplicitVoiceIsRecorded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	ctx := context.Background()

	res, err := f.svc.Speak(ctx, ports.SpeakInput{Character: "Bramblewick", Text: "Hi", Voice: " onyx "})
	require.NoError(t, err)
	assert.Equal(t, "onyx", res.VoiceUsed)

	res, err = f.svc.Speak(ctx, ports.SpeakInput{Character: "BRAMBLEWICK", Text: "Hi again"})
	require.NoError(t, err)
	assert.Equal(t, "onyx", res.VoiceUsed)
}

func TestSpeak_MalformedVoiceOverrideRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)

	for _, voice := range []string{"../../v1/user?x=", "a/b", "onyx?x=1", ".."} {
		_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Bramblewick", Text: "Hi", Voice: voice})
		require.ErrorIs(t, err, voices.ErrInvalidInput, voice)
	}

	assert.Zero(t, f.speech.calls)
	assert.Zero(t, f.storage.calls)
	assert.Zero(t, f.registry.Len())
}

func TestSpeak_ImportedVoiceWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	require.NoError(t, f.registry.ImportJSON([]byte(`{"Bramblewick": "custom-voice"}`)))

	res, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "bramblewick", Text: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "custom-voice", res.VoiceUsed)
}

func TestSpeak_GenderUsesDescriptionThenText(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeGender, nil)
	lib := voices.DefaultOpenAILibrary()
	ctx := context.Background()

	res, err := f.svc.Speak(ctx, ports.SpeakInput{Character: "Ysolde", Text: "Welcome.", Description: "a young witch"})
	require.NoError(t, err)
	assert.Contains(t, lib.Pools[voices.Female], res.VoiceUsed)

	res, err = f.svc.Speak(ctx, ports.SpeakInput{Character: "Oswin", Text: "As your king I command it."})
	require.NoError(t, err)
	assert.Contains(t, lib.Pools[voices.Male], res.VoiceUsed)
}

func TestSpeak_AppliesPronunciationRules(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, func(d *domain.NarrationDeps) {
		d.Rules = textrules.NewService(textrules.NewMemoryRepo(nil, []textrules.WordRule{
			{From: "Bramblewick", To: "Brambleweek"},
		}))
	})

	_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Saga", Text: "Bramblewick waits."})
	require.NoError(t, err)
	assert.Equal(t, []string{"Brambleweek waits."}, f.speech.texts)
}

func TestSpeak_SynthesisFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	f.speech.fail = true

	_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Bramblewick", Text: "Hi"})
	require.ErrorIs(t, err, domain.ErrSynthesisFailed)
	assert.Zero(t, f.storage.calls)
	assert.Equal(t, []string{"speech"}, f.notifier.sources)

	// the assignment made before the provider call is kept
	assert.Equal(t, 1, f.registry.Len())
}

func TestSpeak_EmptyAudio(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	f.speech.audio = []byte{}

	_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Bramblewick", Text: "Hi"})
	require.ErrorIs(t, err, domain.ErrSynthesisFailed)
	assert.Zero(t, f.storage.calls)
}

func TestSpeak_StorageFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, nil)
	f.storage.fail = true

	_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Bramblewick", Text: "Hi"})
	require.ErrorIs(t, err, domain.ErrStorageFailed)
	assert.Equal(t, []string{"storage"}, f.notifier.sources)
}

func TestSpeak_ConfigurationError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeHash, func(d *domain.NarrationDeps) {
		p, err := voices.NewPolicy(voices.ModeHash, voices.Library{})
		require.NoError(t, err)
		d.Policy = p
	})

	_, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Bramblewick", Text: "Hi"})
	require.ErrorIs(t, err, voices.ErrConfiguration)
	assert.Zero(t, f.speech.calls)
	assert.Zero(t, f.registry.Len())
}

func TestSpeak_ConcurrentFirstRequestsShareVoice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, voices.ModeRandom, nil)

	const n = 32
	got := make([]string, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Speak(context.Background(), ports.SpeakInput{Character: "Mossback", Text: "Hm."})
			assert.NoError(t, err)
			if res != nil {
				got[i] = res.VoiceUsed
			}
		}()
	}
	wg.Wait()

	for _, v := range got {
		assert.Equal(t, got[0], v)
	}
	assert.Equal(t, 1, f.registry.Len())
}
