package textrules

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) Process(ctx context.Context, text string) (string, error) {
	// 1) letters
	letterRules, err := s.repo.ListLetterRules(ctx)
	if err != nil {
		return "", err
	}

	if len(letterRules) > 0 {
		letters := make(map[rune]rune, len(letterRules))
		for _, rule := range letterRules {
			from, n := utf8.DecodeRuneInString(rule.From)
			to, m := utf8.DecodeRuneInString(rule.To)
			if n == len(rule.From) && m == len(rule.To) && n > 0 && m > 0 {
				letters[from] = to
			}
		}
		text = strings.Map(func(r rune) rune {
			if to, ok := letters[r]; ok {
				return to
			}
			return r
		}, text)
	}

	// 2) words, matched case-insensitively on letter/digit runs; separators are kept
	wordRules, err := s.repo.ListWordRules(ctx)
	if err != nil {
		return "", err
	}

	if len(wordRules) == 0 {
		return text, nil
	}

	words := make(map[string]string, len(wordRules))
	for _, rule := range wordRules {
		if rule.From != "" {
			words[strings.ToLower(rule.From)] = rule.To
		}
	}

	var b strings.Builder
	b.Grow(len(text))

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := text[start:end]
		if to, ok := words[strings.ToLower(tok)]; ok {
			tok = to
		}
		b.WriteString(tok)
		start = -1
	}

	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		b.WriteRune(r)
	}
	flush(len(text))

	return b.String(), nil
}
