// Package input resolves key sequences against configured bindings.
// Bindings are short sequences like "g g" or single chords like
// "ctrl+d"; the trie tells the UI whether the keys typed so far are a
// binding, the start of one, or noise.
package input

import (
	"fmt"
	"sort"
	"strings"
)

// MatchKind classifies a lookup.
type MatchKind int

const (
	// NoMatch: the sequence is not a binding nor the start of one.
	NoMatch MatchKind = iota
	// Prefix: more keys could complete a binding.
	Prefix
	// Exact: the sequence is a binding.
	Exact
)

// aliases maps accepted spellings to canonical key names. Canonical
// names are the ones bubbletea reports, except the space character,
// which would break space-separated sequence syntax.
var aliases = map[string]string{
	" ":      "space",
	"btab":   "shift+tab",
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"spc":    "space",
}

// Normalize canonicalizes one key name.
func Normalize(key string) string {
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// ParseSequence splits a space-separated binding into normalized
// keys. The literal space key must be written "space".
func ParseSequence(sequence string) []string {
	fields := strings.Fields(sequence)
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = Normalize(f)
	}
	return keys
}

// Trie holds the bindings of one input mode.
type Trie struct {
	children map[string]*Trie
	action   string
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	return &Trie{children: make(map[string]*Trie)}
}

// Bind adds a binding. It rejects sequences that would pass through
// or land on an existing binding, since such overlaps make one of the
// two unreachable; no node holds both an action and children.
func (t *Trie) Bind(sequence, action string) error {
	keys := ParseSequence(sequence)
	if len(keys) == 0 {
		return fmt.Errorf("bind %q: empty sequence", sequence)
	}
	if action == "" {
		return fmt.Errorf("bind %q: empty action", sequence)
	}

	node := t
	for i, key := range keys {
		if node.action != "" {
			return fmt.Errorf("bind %q: shadowed by shorter binding %q", sequence, strings.Join(keys[:i], " "))
		}
		child, ok := node.children[key]
		if !ok {
			child = NewTrie()
			node.children[key] = child
		}
		node = child
	}
	if node.action != "" && node.action != action {
		return fmt.Errorf("bind %q: already bound to %s", sequence, node.action)
	}
	if len(node.children) > 0 {
		return fmt.Errorf("bind %q: shadows longer bindings", sequence)
	}
	node.action = action
	return nil
}

// Lookup resolves the keys typed so far. action is set only for
// Exact.
func (t *Trie) Lookup(keys []string) (action string, kind MatchKind) {
	node := t
	for _, key := range keys {
		child, ok := node.children[Normalize(key)]
		if !ok {
			return "", NoMatch
		}
		node = child
	}
	if node.action != "" {
		return node.action, Exact
	}
	if len(node.children) > 0 {
		return "", Prefix
	}
	return "", NoMatch
}

// Len reports the number of bindings.
func (t *Trie) Len() int {
	n := 0
	if t.action != "" {
		n++
	}
	for _, child := range t.children {
		n += child.Len()
	}
	return n
}

// Bindings flattens the trie back into sequence→action form, for the
// help view. Sequences come out in no particular order.
func (t *Trie) Bindings() map[string]string {
	out := make(map[string]string)
	t.collect("", out)
	return out
}

func (t *Trie) collect(prefix string, out map[string]string) {
	if t.action != "" {
		out[prefix] = t.action
	}
	for key, child := range t.children {
		seq := key
		if prefix != "" {
			seq = prefix + " " + key
		}
		child.collect(seq, out)
	}
}

// FromBindings builds a trie from one mode's sequence→action map,
// skipping entries that conflict. Shorter sequences are bound first
// so conflicts resolve the same way on every run. It returns the trie
// and the conflicts it skipped.
func FromBindings(bindings map[string]string) (*Trie, []error) {
	sequences := make([]string, 0, len(bindings))
	for sequence, action := range bindings {
		if action == "" {
			continue // unbound by the user
		}
		sequences = append(sequences, sequence)
	}
	sort.Slice(sequences, func(i, j int) bool {
		a, b := ParseSequence(sequences[i]), ParseSequence(sequences[j])
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return sequences[i] < sequences[j]
	})

	t := NewTrie()
	var errs []error
	for _, sequence := range sequences {
		if err := t.Bind(sequence, bindings[sequence]); err != nil {
			errs = append(errs, err)
		}
	}
	return t, errs
}
