// Package config reads the relay settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/saga_tts/internal/textrules"
	"github.com/Vovarama1992/saga_tts/internal/voices"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"

	StorageS3     = "s3"
	StorageInline = "inline"
)

type OpenAI struct {
	APIKey  string
	BaseURL string
	Model   string
}

type ElevenLabs struct {
	APIKey  string
	BaseURL string
	Model   string
}

type S3 struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	Secure        bool
	PublicBaseURL string
	KeyPrefix     string
}

type Telegram struct {
	Token   string
	ChatIDs []int64
}

type Config struct {
	Port string

	Provider   string
	OpenAI     OpenAI
	ElevenLabs ElevenLabs

	Storage string
	S3      S3

	VoiceMode voices.Mode
	VoiceHash string
	Library   voices.Library

	// Letters and Words seed the in-memory pronunciation rules when no
	// database is configured.
	Letters []textrules.LetterRule
	Words   []textrules.WordRule

	SkipCharacter *regexp.Regexp

	RateLimitPerMinute int
	SynthTimeout       time.Duration

	DatabaseURL string
	Telegram    Telegram

	LogFile  string
	LogLevel string
}

// libraryFile is the on-disk shape of VOICE_LIBRARY_FILE beyond the voice
// sections decoded by voices.ParseLibrary.
type libraryFile struct {
	Pronunciation struct {
		Letters []textrules.LetterRule `yaml:"letters"`
		Words   []textrules.WordRule   `yaml:"words"`
	} `yaml:"pronunciation"`
}

// Load builds a Config from the process environment. The caller loads .env
// beforehand.
func Load() (Config, error) {
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		Provider: strings.ToLower(getenv("TTS_PROVIDER", ProviderOpenAI)),
		OpenAI: OpenAI{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   getenv("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		},
		ElevenLabs: ElevenLabs{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			BaseURL: os.Getenv("ELEVENLABS_BASE_URL"),
			Model:   os.Getenv("ELEVENLABS_MODEL"),
		},
		Storage: strings.ToLower(getenv("STORAGE_BACKEND", StorageS3)),
		S3: S3{
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			AccessKey:     os.Getenv("S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("S3_SECRET_KEY"),
			Bucket:        os.Getenv("S3_BUCKET"),
			Region:        getenv("S3_REGION", "auto"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
			KeyPrefix:     getenv("S3_KEY_PREFIX", "tts"),
		},
		VoiceMode:   voices.Mode(strings.ToLower(getenv("VOICE_POLICY", string(voices.ModeHash)))),
		VoiceHash:   getenv("VOICE_HASH", "java"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Telegram:    Telegram{Token: os.Getenv("TELEGRAM_ALERT_TOKEN")},
		LogFile:     os.Getenv("LOG_FILE"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.S3.Secure, err = getbool("S3_SECURE", true); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = getint("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return Config{}, err
	}
	secs, err := getint("SYNTH_TIMEOUT_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.SynthTimeout = time.Duration(secs) * time.Second

	if cfg.Telegram.ChatIDs, err = parseChatIDs(os.Getenv("TELEGRAM_ALERT_CHAT_IDS")); err != nil {
		return Config{}, err
	}

	if pattern := os.Getenv("SKIP_CHARACTER_PATTERN"); pattern != "" {
		if cfg.SkipCharacter, err = regexp.Compile(pattern); err != nil {
			return Config{}, fmt.Errorf("%w: SKIP_CHARACTER_PATTERN: %v", ErrInvalid, err)
		}
	}

	if err := cfg.loadLibrary(os.Getenv("VOICE_LIBRARY_FILE")); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadLibrary(path string) error {
	base := voices.DefaultOpenAILibrary()
	if c.Provider == ProviderElevenLabs {
		base = voices.DefaultElevenLabsLibrary()
	}
	if path == "" {
		c.Library = base
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: VOICE_LIBRARY_FILE: %v", ErrInvalid, err)
	}
	if c.Library, err = voices.ParseLibrary(data, base); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: pronunciation rules: %v", ErrInvalid, err)
	}
	c.Letters = f.Pronunciation.Letters
	c.Words = f.Pronunciation.Words

	return nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrInvalid)
		}
	case ProviderElevenLabs:
		if c.ElevenLabs.APIKey == "" {
			return fmt.Errorf("%w: ELEVENLABS_API_KEY is not set", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown TTS_PROVIDER %q", ErrInvalid, c.Provider)
	}

	switch c.Storage {
	case StorageInline:
	case StorageS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return fmt.Errorf("%w: S3_ENDPOINT and S3_BUCKET are required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_BACKEND %q", ErrInvalid, c.Storage)
	}

	if _, err := voices.HashByName(c.VoiceHash); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Library.Validate(c.VoiceMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("%w: RATE_LIMIT_PER_MINUTE must not be negative", ErrInvalid)
	}
	if c.SynthTimeout <= 0 {
		return fmt.Errorf("%w: SYNTH_TIMEOUT_SECONDS must be positive", ErrInvalid)
	}
	if c.Telegram.Token != "" && len(c.Telegram.ChatIDs) == 0 {
		return fmt.Errorf("%w: TELEGRAM_ALERT_CHAT_IDS is required with TELEGRAM_ALERT_TOKEN", ErrInvalid)
	}

	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return n, nil
}

func getbool(key string, def bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return b, nil
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: TELEGRAM_ALERT_CHAT_IDS: %q", ErrInvalid, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
