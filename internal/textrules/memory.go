package textrules

import (
	"context"
	"sort"
	"sync"
)

// memoryRepo holds rules loaded from the voice library file. Changes made
// through the API live until restart.
type memoryRepo struct {
	mu      sync.RWMutex
	letters map[string]string
	words   map[string]string
}

func NewMemoryRepo(letters []LetterRule, words []WordRule) Repo {
	r := &memoryRepo{
		letters: make(map[string]string, len(letters)),
		words:   make(map[string]string, len(words)),
	}
	for _, l := range letters {
		r.letters[l.From] = l.To
	}
	for _, w := range words {
		r.words[w.From] = w.To
	}
	return r
}

func (r *memoryRepo) ListLetterRules(context.Context) ([]LetterRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]LetterRule, 0, len(r.letters))
	for from, to := range r.letters {
		out = append(out, LetterRule{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out, nil
}

func (r *memoryRepo) ListWordRules(context.Context) ([]WordRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]WordRule, 0, len(r.words))
	for from, to := range r.words {
		out = append(out, WordRule{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out, nil
}

func (r *memoryRepo) AddLetterRule(_ context.Context, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.letters[from] = to
	return nil
}

func (r *memoryRepo) AddWordRule(_ context.Context, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.words[from] = to
	return nil
}

func (r *memoryRepo) DeleteLetterRule(_ context.Context, from string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.letters, from)
	return nil
}

func (r *memoryRepo) DeleteWordRule(_ context.Context, from string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.words, from)
	return nil
}
