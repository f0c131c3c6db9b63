package voices

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

type entry struct {
	display string
	voice   string
}

// Registry maps characters to voices for the lifetime of the process.
// Keys are normalized names; the first spelling seen is kept for export.
// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

func (r *Registry) Lookup(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[Normalize(name)]
	return e.voice, ok
}

// Assign inserts or overwrites the voice of name.
func (r *Registry) Assign(name, voice string) error {
	key := Normalize(name)
	if key == "" || voice == "" {
		return fmt.Errorf("%w: name and voice are required", ErrInvalidInput)
	}
	if !ValidVoiceID(voice) {
		return fmt.Errorf("%w: malformed voice id %q", ErrInvalidInput, voice)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.set(key, name, voice)
	return nil
}

// ResolveOrAssign returns the recorded voice of name, or records the one
// produced by assign. The check and the insert happen under one lock, so
// assign must not block on I/O.
func (r *Registry) ResolveOrAssign(name string, assign func() (string, error)) (voice string, created bool, err error) {
	key := Normalize(name)
	if key == "" {
		return "", false, fmt.Errorf("%w: empty character name", ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		return e.voice, false, nil
	}

	voice, err = assign()
	if err != nil {
		return "", false, err
	}
	r.set(key, name, voice)

	return voice, true, nil
}

// ExportAll returns a copy of the mapping keyed by display name.
func (r *Registry) ExportAll() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.entries))
	for _, e := range r.entries {
		out[e.display] = e.voice
	}
	return out
}

// ImportAll merges mapping into the registry, overwriting on collision.
// Nothing is written unless every entry is valid.
func (r *Registry) ImportAll(mapping map[string]string) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping is required", ErrInvalidPayload)
	}

	names := make([]string, 0, len(mapping))
	for name, voice := range mapping {
		if Normalize(name) == "" || !ValidVoiceID(voice) {
			return fmt.Errorf("%w: entry %q → %q", ErrInvalidPayload, name, voice)
		}
		names = append(names, name)
	}
	// deterministic winner when two spellings normalize to the same key
	sort.Strings(names)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		r.set(Normalize(name), name, mapping[name])
	}
	return nil
}

// ImportJSON decodes raw as a flat JSON object of strings and imports it.
func (r *Registry) ImportJSON(raw []byte) error {
	mapping, err := ParseMapping(raw)
	if err != nil {
		return err
	}
	return r.ImportAll(mapping)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// ParseMapping decodes a flat JSON object of string values.
func ParseMapping(raw []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	var mapping map[string]string
	if err := json.Unmarshal(trimmed, &mapping); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return mapping, nil
}

// set must be called with mu held.
func (r *Registry) set(key, display, voice string) {
	display = strings.TrimSpace(display)
	if e, ok := r.entries[key]; ok {
		display = e.display
	}
	r.entries[key] = entry{display: display, voice: voice}
}
