package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Vovarama1992/saga_tts/internal/config"
	"github.com/Vovarama1992/saga_tts/internal/textrules"
	"github.com/Vovarama1992/saga_tts/internal/voices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setBase clears every key Load reads and sets the minimum for an
// openai + inline setup. Tests using it must not run in parallel.
func setBase(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT", "TTS_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_TTS_MODEL",
		"ELEVENLABS_API_KEY", "ELEVENLABS_BASE_URL", "ELEVENLABS_MODEL",
		"STORAGE_BACKEND", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET",
		"S3_REGION", "S3_SECURE", "S3_PUBLIC_BASE_URL", "S3_KEY_PREFIX",
		"VOICE_POLICY", "VOICE_HASH", "VOICE_LIBRARY_FILE", "SKIP_CHARACTER_PATTERN",
		"RATE_LIMIT_PER_MINUTE", "SYNTH_TIMEOUT_SECONDS", "DATABASE_URL",
		"TELEGRAM_ALERT_TOKEN", "TELEGRAM_ALERT_CHAT_IDS", "LOG_FILE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORAGE_BACKEND", "inline")
}

func TestLoad_Defaults(t *testing.T) {
	setBase(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini-tts", cfg.OpenAI.Model)
	assert.Equal(t, voices.ModeHash, cfg.VoiceMode)
	assert.Equal(t, "java", cfg.VoiceHash)
	assert.Equal(t, voices.DefaultOpenAILibrary(), cfg.Library)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Minute, cfg.SynthTimeout)
	assert.Equal(t, "tts", cfg.S3.KeyPrefix)
	assert.True(t, cfg.S3.Secure)
	assert.Nil(t, cfg.SkipCharacter)
}

func TestLoad_ElevenLabsUsesItsLibrary(t *testing.T) {
	setBase(t)
	t.Setenv("TTS_PROVIDER", "ElevenLabs")
	t.Setenv("ELEVENLABS_API_KEY", "xi-test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, voices.DefaultElevenLabsLibrary(), cfg.Library)
}

func TestLoad_Overrides(t *testing.T) {
	setBase(t)
	t.Setenv("VOICE_POLICY", "gender")
	t.Setenv("VOICE_HASH", "xxh3")
	t.Setenv("SKIP_CHARACTER_PATTERN", "^(sfx|music)$")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("SYNTH_TIMEOUT_SECONDS", "15")
	t.Setenv("TELEGRAM_ALERT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ALERT_CHAT_IDS", " 42, -1001 ,")
	t.Setenv("S3_SECURE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, voices.ModeGender, cfg.VoiceMode)
	assert.Equal(t, "xxh3", cfg.VoiceHash)
	require.NotNil(t, cfg.SkipCharacter)
	assert.True(t, cfg.SkipCharacter.MatchString("sfx"))
	assert.Zero(t, cfg.RateLimitPerMinute)
	assert.Equal(t, 15*time.Second, cfg.SynthTimeout)
	assert.Equal(t, []int64{42, -1001}, cfg.Telegram.ChatIDs)
	assert.False(t, cfg.S3.Secure)
}

func TestLoad_LibraryFileWithPronunciation(t *testing.T) {
	setBase(t)

	data := `
pool: [garrick, osric]
pronunciation:
  letters:
    - {from: "ё", to: "е"}
  words:
    - {from: Bramblewick, to: Brambleweek}
`
	path := filepath.Join(t.TempDir(), "voices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("VOICE_LIBRARY_FILE", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"garrick", "osric"}, cfg.Library.Pool)
	assert.Equal(t, voices.DefaultOpenAILibrary().Reserved, cfg.Library.Reserved)
	assert.Equal(t, []textrules.LetterRule{{From: "ё", To: "е"}}, cfg.Letters)
	assert.Equal(t, []textrules.WordRule{{From: "Bramblewick", To: "Brambleweek"}}, cfg.Words)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing openai key":   {"OPENAI_API_KEY": ""},
		"unknown provider":     {"TTS_PROVIDER": "polly"},
		"missing xi key":       {"TTS_PROVIDER": "elevenlabs"},
		"unknown storage":      {"STORAGE_BACKEND": "ftp"},
		"s3 without bucket":    {"STORAGE_BACKEND": "s3", "S3_ENDPOINT": "r2.example.com"},
		"unknown policy":       {"VOICE_POLICY": "loudest"},
		"unknown hash":         {"VOICE_HASH": "md5"},
		"bad pattern":          {"SKIP_CHARACTER_PATTERN": "("},
		"bad rate":             {"RATE_LIMIT_PER_MINUTE": "lots"},
		"negative rate":        {"RATE_LIMIT_PER_MINUTE": "-1"},
		"zero timeout":         {"SYNTH_TIMEOUT_SECONDS": "0"},
		"bad secure flag":      {"S3_SECURE": "maybe"},
		"bad chat id":          {"TELEGRAM_ALERT_CHAT_IDS": "abc"},
		"token without chats":  {"TELEGRAM_ALERT_TOKEN": "123:abc"},
		"missing library file": {"VOICE_LIBRARY_FILE": "/nonexistent/voices.yaml"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBase(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}
