package textrules

import "context"

type LetterRule struct {
	From string `json:"from" yaml:"from"` // 1 rune
	To   string `json:"to" yaml:"to"`     // 1 rune
}

type WordRule struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

type Repo interface {
	ListLetterRules(ctx context.Context) ([]LetterRule, error)
	ListWordRules(ctx context.Context) ([]WordRule, error)

	AddLetterRule(ctx context.Context, from, to string) error
	AddWordRule(ctx context.Context, from, to string) error

	DeleteLetterRule(ctx context.Context, from string) error
	DeleteWordRule(ctx context.Context, from string) error
}

// Service rewrites dialogue so the provider pronounces names the way the
// campaign expects.
type Service interface {
	Process(ctx context.Context, text string) (string, error)
}
