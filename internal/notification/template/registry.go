// Package template renders notification messages from per-channel templates
// containing {placeholder} tokens.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bizsuite/internal/notification/models"
)

// ErrUnknownTemplate is returned by Render when no template exists for the
// (channel, key) pair. It signals a configuration defect.
var ErrUnknownTemplate = errors.New("unknown template")

// Set maps notification keys to template bodies for one channel.
type Set map[models.Key]string

// Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	templates map[models.Channel]Set
}

// NewRegistry copies sets so later mutation by the caller has no effect.
func NewRegistry(sets map[models.Channel]Set) *Registry {
	r := &Registry{templates: make(map[models.Channel]Set, len(sets))}
	for ch, set := range sets {
		r.templates[ch] = cloneSet(set)
	}
	return r
}

// Overlay returns a new registry with overrides replacing matching entries.
func (r *Registry) Overlay(overrides map[models.Channel]Set) *Registry {
	merged := make(map[models.Channel]Set, len(r.templates))
	for ch, set := range r.templates {
		merged[ch] = cloneSet(set)
	}
	for ch, set := range overrides {
		if merged[ch] == nil {
			merged[ch] = Set{}
		}
		for key, body := range set {
			merged[ch][key] = body
		}
	}
	return &Registry{templates: merged}
}

// Render substitutes every {name} token in the (channel, key) template with
// vars[name]. Missing variables render as the empty string.
func (r *Registry) Render(channel models.Channel, key models.Key, vars models.Vars) (string, error) {
	tpl, ok := r.Lookup(channel, key)
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrUnknownTemplate, channel, key)
	}
	return Substitute(tpl, vars), nil
}

// Lookup returns the raw template body.
func (r *Registry) Lookup(channel models.Channel, key models.Key) (string, bool) {
	set, ok := r.templates[channel]
	if !ok {
		return "", false
	}
	tpl, ok := set[key]
	return tpl, ok
}

// Keys lists the keys registered for channel, sorted.
func (r *Registry) Keys(channel models.Channel) []models.Key {
	set := r.templates[channel]
	keys := make([]models.Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Substitute performs the placeholder replacement used by Render. Braces that
// do not enclose a valid placeholder name are copied through unchanged.
func Substitute(tpl string, vars models.Vars) string {
	var b strings.Builder
	b.Grow(len(tpl))
	for {
		name, start, end, ok := nextPlaceholder(tpl)
		if !ok {
			b.WriteString(tpl)
			return b.String()
		}
		b.WriteString(tpl[:start])
		b.WriteString(vars[name])
		tpl = tpl[end:]
	}
}

// Placeholders returns the distinct placeholder names in tpl in order of
// first appearance.
func Placeholders(tpl string) []string {
	var names []string
	seen := map[string]bool{}
	for {
		name, _, end, ok := nextPlaceholder(tpl)
		if !ok {
			return names
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		tpl = tpl[end:]
	}
}

// nextPlaceholder finds the first {name} token. start and end bound the token
// including braces.
func nextPlaceholder(s string) (name string, start, end int, ok bool) {
	offset := 0
	for {
		open := strings.IndexByte(s[offset:], '{')
		if open < 0 {
			return "", 0, 0, false
		}
		open += offset
		closing := strings.IndexByte(s[open+1:], '}')
		if closing < 0 {
			return "", 0, 0, false
		}
		closing += open + 1
		candidate := s[open+1 : closing]
		if validName(candidate) {
			return candidate, open, closing + 1, true
		}
		offset = open + 1
	}
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func cloneSet(set Set) Set {
	out := make(Set, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}
