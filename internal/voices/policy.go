package voices

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/zeebo/xxh3"
)

type Mode string

const (
	ModeHash   Mode = "hash"
	ModeGender Mode = "gender"
	ModeRandom Mode = "random"
)

// HashFunc maps a normalized character name to a stable unsigned value.
type HashFunc func(key string) uint64

// JavaHash is the 31-multiplier string hash over UTF-16 code units with int32
// wraparound, absolute value taken in 64 bits.
func JavaHash(key string) uint64 {
	var h int32
	for _, u := range utf16.Encode([]rune(key)) {
		h = h*31 + int32(u)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return uint64(v)
}

// XXH3Hash spreads names more evenly than JavaHash but yields different
// assignments for the same pool.
func XXH3Hash(key string) uint64 {
	return xxh3.HashString(key)
}

// HashByName resolves the VOICE_HASH setting.
func HashByName(name string) (HashFunc, error) {
	switch strings.ToLower(name) {
	case "", "java":
		return JavaHash, nil
	case "xxh3":
		return XXH3Hash, nil
	default:
		return nil, fmt.Errorf("%w: unknown hash %q", ErrConfiguration, name)
	}
}

type Option func(*Policy)

func WithHash(h HashFunc) Option {
	return func(p *Policy) {
		p.hash = h
	}
}

// WithRandom replaces the source used by ModeRandom. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(p *Policy) {
		p.intn = intn
	}
}

// Policy picks a voice for a character. In hash and gender modes the result
// depends only on the name, the hint text and the library.
type Policy struct {
	mode     Mode
	library  Library
	hash     HashFunc
	intn     func(n int) int
	reserved map[string]string
	keywords map[Gender][]string
}

func NewPolicy(mode Mode, library Library, opts ...Option) (*Policy, error) {
	switch mode {
	case ModeHash, ModeGender, ModeRandom:
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrConfiguration, mode)
	}

	p := &Policy{
		mode:     mode,
		library:  library,
		hash:     JavaHash,
		intn:     rand.IntN,
		reserved: make(map[string]string, len(library.Reserved)),
		keywords: make(map[Gender][]string, len(library.Keywords)),
	}
	for name, voice := range library.Reserved {
		p.reserved[Normalize(name)] = voice
	}
	for g, words := range library.Keywords {
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				p.keywords[g] = append(p.keywords[g], w)
			}
		}
	}
	for _, o := range opts {
		o(p)
	}

	return p, nil
}

func (p *Policy) Mode() Mode {
	return p.mode
}

func (p *Policy) Library() Library {
	return p.library
}

// Assign picks a voice for name. hint is the character description, or the
// dialogue line when no description is known; only gender mode reads it.
func (p *Policy) Assign(name, hint string) (Assignment, error) {
	key := Normalize(name)
	if key == "" {
		return Assignment{}, fmt.Errorf("%w: empty character name", ErrInvalidInput)
	}

	if voice, ok := p.reserved[key]; ok {
		return Assignment{Voice: voice, Reserved: true}, nil
	}

	switch p.mode {
	case ModeRandom:
		if len(p.library.Pool) == 0 {
			return Assignment{}, fmt.Errorf("%w: empty voice pool", ErrConfiguration)
		}
		return Assignment{Voice: p.library.Pool[p.intn(len(p.library.Pool))]}, nil

	case ModeGender:
		gender := p.Classify(hint)
		pool := p.library.Pools[gender]
		if len(pool) == 0 {
			pool = p.library.Pools[Neutral]
		}
		voice, err := p.pick(pool, key)
		if err != nil {
			return Assignment{}, err
		}
		return Assignment{Voice: voice, Gender: gender}, nil

	default:
		voice, err := p.pick(p.library.Pool, key)
		if err != nil {
			return Assignment{}, err
		}
		return Assignment{Voice: voice}, nil
	}
}

// Classify looks for whole-word keyword hits, regular plurals included.
// Male keywords are checked before female ones; no hit means Neutral.
func (p *Policy) Classify(text string) Gender {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}

	for _, g := range []Gender{Male, Female} {
		for _, kw := range p.keywords[g] {
			for _, form := range pluralForms(kw) {
				if _, ok := words[form]; ok {
					return g
				}
			}
		}
	}
	return Neutral
}

// pluralForms returns kw with its regular English plurals: kings, witches, ladies.
func pluralForms(kw string) []string {
	forms := []string{kw, kw + "s", kw + "es"}
	if strings.HasSuffix(kw, "y") {
		forms = append(forms, strings.TrimSuffix(kw, "y")+"ies")
	}
	return forms
}

func (p *Policy) pick(pool []string, key string) (string, error) {
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: empty voice pool", ErrConfiguration)
	}
	return pool[p.hash(key)%uint64(len(pool))], nil
}
