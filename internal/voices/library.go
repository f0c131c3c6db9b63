package voices

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library is the static voice data a policy works with: the flat pool used by
// hash and random modes, per-gender pools, reserved names and gender keywords.
type Library struct {
	Pool     []string            `yaml:"pool" json:"pool"`
	Pools    map[Gender][]string `yaml:"pools" json:"pools"`
	Reserved map[string]string   `yaml:"reserved" json:"reserved"`
	Keywords map[Gender][]string `yaml:"keywords" json:"keywords"`
}

var defaultKeywords = map[Gender][]string{
	Male:   {"man", "men", "male", "boy", "king", "lord", "father", "son", "prince", "wizard"},
	Female: {"woman", "women", "female", "girl", "queen", "lady", "mother", "daughter", "princess", "witch"},
}

// DefaultOpenAILibrary returns the voices of the OpenAI speech endpoint with
// the narrator pinned to "verse".
func DefaultOpenAILibrary() Library {
	return Library{
		Pool: []string{
			"alloy", "echo", "fable", "onyx", "nova", "shimmer",
			"coral", "verse", "ballad", "ash", "sage", "marin", "cedar",
		},
		Pools: map[Gender][]string{
			Male:    {"onyx", "echo", "ash", "ballad", "cedar"},
			Female:  {"nova", "shimmer", "coral", "sage", "marin"},
			Neutral: {"alloy", "fable", "verse"},
		},
		Reserved: map[string]string{
			"saga":     "verse",
			"narrator": "verse",
		},
		Keywords: cloneKeywords(defaultKeywords),
	}
}

// DefaultElevenLabsLibrary returns a pool of ElevenLabs premade voice IDs.
func DefaultElevenLabsLibrary() Library {
	const (
		rachel    = "21m00Tcm4TlvDq8ikWAM"
		domi      = "AZnzlk1XvdvUeBnXmlld"
		sarah     = "EXAVITQu4vr4xnSDxMaL"
		elli      = "MF3mGyEYCl7XYWbV9V6O"
		charlotte = "XB0fDUnXU5powFXDhCwa"
		lily      = "pFZP5JQG7iQjIQuC4Bku"
		josh      = "TxGEqnHWrfWFTfGW9XjX"
		adam      = "pNInz6obpgDQGcFmaJgB"
		sam       = "yoZ06aMxZJJ28mfd3POQ"
		aria      = "9BWtsMINqrJLrRacOk9x"
	)

	return Library{
		Pool: []string{rachel, domi, sarah, elli, charlotte, lily, josh, adam, sam, aria},
		Pools: map[Gender][]string{
			Male:    {josh, adam, sam},
			Female:  {domi, sarah, elli, charlotte, lily},
			Neutral: {aria, rachel},
		},
		Reserved: map[string]string{
			"saga":     rachel,
			"narrator": rachel,
		},
		Keywords: cloneKeywords(defaultKeywords),
	}
}

// LoadLibrary reads a YAML library file. Sections missing from the file keep
// the values of base.
func LoadLibrary(path string, base Library) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Library{}, fmt.Errorf("read voice library: %w", err)
	}

	return ParseLibrary(data, base)
}

func ParseLibrary(data []byte, base Library) (Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return Library{}, fmt.Errorf("parse voice library: %w", err)
	}

	if len(lib.Pool) == 0 {
		lib.Pool = base.Pool
	}
	if len(lib.Pools) == 0 {
		lib.Pools = base.Pools
	}
	if lib.Reserved == nil {
		lib.Reserved = base.Reserved
	}
	if len(lib.Keywords) == 0 {
		lib.Keywords = base.Keywords
	}

	return lib, nil
}

// Validate reports whether the library can serve the given mode.
func (l Library) Validate(mode Mode) error {
	switch mode {
	case ModeHash, ModeRandom:
		if len(l.Pool) == 0 {
			return fmt.Errorf("%w: empty voice pool", ErrConfiguration)
		}
	case ModeGender:
		if len(l.Pools[Neutral]) == 0 {
			return fmt.Errorf("%w: empty neutral pool", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrConfiguration, mode)
	}

	for name, voice := range l.Reserved {
		if Normalize(name) == "" || !ValidVoiceID(voice) {
			return fmt.Errorf("%w: reserved entry %q → %q", ErrConfiguration, name, voice)
		}
	}
	for _, voice := range l.Pool {
		if !ValidVoiceID(voice) {
			return fmt.Errorf("%w: malformed voice id %q in pool", ErrConfiguration, voice)
		}
	}
	for g, pool := range l.Pools {
		for _, voice := range pool {
			if !ValidVoiceID(voice) {
				return fmt.Errorf("%w: malformed voice id %q in %s pool", ErrConfiguration, voice, g)
			}
		}
	}

	return nil
}

func cloneKeywords(src map[Gender][]string) map[Gender][]string {
	out := make(map[Gender][]string, len(src))
	for g, words := range src {
		out[g] = append([]string(nil), words...)
	}
	return out
}
