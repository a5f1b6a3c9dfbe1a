// Package speech maps recognized speech to sign-language video clips.
package speech

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNoClips is returned when no phrase or word of the text has a clip.
var ErrNoClips = errors.New("no clips for text")

// Normalize folds text to the form used as mapping keys: diacritics removed,
// lowercase ASCII letters and digits only, single spaces.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)

	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, folded)

	return strings.Join(strings.Fields(kept), " ")
}

// Mapping maps a normalized phrase to the clips that sign it, in playback order.
type Mapping map[string][]string

// DefaultMapping is used when no mapping file can be read.
func DefaultMapping() Mapping {
	return Mapping{
		"hello":      {"hello.mp4"},
		"help":       {"help.mp4"},
		"i love you": {"i_love_you.mp4"},
	}
}

// LoadMapping reads a JSON object of phrase to clip list. Keys are
// normalized. On any error the default mapping is returned with the error.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultMapping(), fmt.Errorf("read mapping: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultMapping(), fmt.Errorf("parse mapping %s: %w", path, err)
	}

	m := make(Mapping, len(raw))
	for phrase, clips := range raw {
		if key := Normalize(phrase); key != "" && len(clips) > 0 {
			m[key] = clips
		}
	}
	return m, nil
}

// Resolver turns text into clip names. It is safe for concurrent use.
type Resolver struct {
	mu      sync.RWMutex
	mapping Mapping
}

// NewResolver creates a Resolver over a copy of m.
func NewResolver(m Mapping) *Resolver {
	r := &Resolver{mapping: make(Mapping, len(m))}
	for phrase, clips := range m {
		r.Set(phrase, clips)
	}
	return r
}

// Set maps a phrase to clips, replacing any existing entry.
func (r *Resolver) Set(phrase string, clips []string) {
	key := Normalize(phrase)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mapping[key] = slices.Clone(clips)
}

// Delete removes a phrase.
func (r *Resolver) Delete(phrase string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mapping, Normalize(phrase))
}

// Mapping returns a copy of the current mapping.
func (r *Resolver) Mapping() Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := maps.Clone(r.mapping)
	for k, v := range m {
		m[k] = slices.Clone(v)
	}
	return m
}

// Resolve returns the clips for text. A whole-phrase match wins; otherwise
// the clips of each mapped word are concatenated in word order.
func (r *Resolver) Resolve(text string) ([]string, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, ErrNoClips
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if clips, ok := r.mapping[normalized]; ok {
		return slices.Clone(clips), nil
	}

	var clips []string
	for _, word := range strings.Split(normalized, " ") {
		clips = append(clips, r.mapping[word]...)
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoClips, normalized)
	}
	return clips, nil
}
