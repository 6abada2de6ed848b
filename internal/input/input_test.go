package input

import (
	"testing"
)

func TestTrie_SingleKey(t *testing.T) {
	trie := NewTrie()
	if err := trie.Bind("q", "quit"); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	action, kind := trie.Lookup([]string{"q"})
	if kind != Exact || action != "quit" {
		t.Fatalf("Lookup(q) = (%q, %v), want (quit, Exact)", action, kind)
	}
	if _, kind := trie.Lookup([]string{"x"}); kind != NoMatch {
		t.Fatalf("Lookup(x) = %v, want NoMatch", kind)
	}
}

func TestTrie_Sequence(t *testing.T) {
	trie := NewTrie()
	if err := trie.Bind("g g", "cursor.top"); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if _, kind := trie.Lookup([]string{"g"}); kind != Prefix {
		t.Fatalf("Lookup(g) = %v, want Prefix", kind)
	}
	action, kind := trie.Lookup([]string{"g", "g"})
	if kind != Exact || action != "cursor.top" {
		t.Fatalf("Lookup(g g) = (%q, %v), want (cursor.top, Exact)", action, kind)
	}
	if _, kind := trie.Lookup([]string{"g", "x"}); kind != NoMatch {
		t.Fatalf("Lookup(g x) = %v, want NoMatch", kind)
	}
	if _, kind := trie.Lookup([]string{"g", "g", "g"}); kind != NoMatch {
		t.Fatalf("Lookup(g g g) = %v, want NoMatch", kind)
	}
}

func TestTrie_RejectsShadowingBindings(t *testing.T) {
	trie := NewTrie()
	if err := trie.Bind("g g", "cursor.top"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := trie.Bind("g", "anything"); err == nil {
		t.Fatalf("Bind(g) succeeded over existing g g")
	}
	if err := trie.Bind("g g g", "anything"); err == nil {
		t.Fatalf("Bind(g g g) succeeded through existing g g")
	}
	if err := trie.Bind("g g", "other.action"); err == nil {
		t.Fatalf("rebinding g g to a different action succeeded")
	}
}

func TestTrie_RebindSameActionIsNoop(t *testing.T) {
	trie := NewTrie()
	if err := trie.Bind("q", "quit"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := trie.Bind("q", "quit"); err != nil {
		t.Fatalf("idempotent rebind failed: %v", err)
	}
	if trie.Len() != 1 {
		t.Fatalf("Len = %d, want 1", trie.Len())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"q", "q"},
		{" ", "space"},
		{"space", "space"},
		{"btab", "shift+tab"},
		{"shift+tab", "shift+tab"},
		{"return", "enter"},
		{"escape", "esc"},
		{"ctrl+d", "ctrl+d"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookup_NormalizesKeys(t *testing.T) {
	trie := NewTrie()
	if err := trie.Bind("btab", "tab.prev"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	// bubbletea reports the key as shift+tab.
	action, kind := trie.Lookup([]string{"shift+tab"})
	if kind != Exact || action != "tab.prev" {
		t.Fatalf("Lookup(shift+tab) = (%q, %v)", action, kind)
	}
}

func TestParseSequence(t *testing.T) {
	got := ParseSequence("  g   g ")
	if len(got) != 2 || got[0] != "g" || got[1] != "g" {
		t.Fatalf("ParseSequence = %v", got)
	}
	if got := ParseSequence(""); len(got) != 0 {
		t.Fatalf("ParseSequence(empty) = %v", got)
	}
}

func TestFromBindings(t *testing.T) {
	trie, errs := FromBindings(map[string]string{
		"q":        "quit",
		"g g":      "cursor.top",
		"G":        "cursor.bottom",
		"x":        "", // unbound, skipped silently
		"g g g":    "conflict.deeper",
		"ctrl+d":   "cursor.halfpage.down",
		"shift+up": "volume.up",
	})

	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly the g g g conflict", errs)
	}
	if trie.Len() != 5 {
		t.Fatalf("Len = %d, want 5", trie.Len())
	}
	if action, kind := trie.Lookup([]string{"g", "g"}); kind != Exact || action != "cursor.top" {
		t.Fatalf("g g lookup = (%q, %v)", action, kind)
	}
	if _, kind := trie.Lookup([]string{"x"}); kind != NoMatch {
		t.Fatalf("unbound key still present: %v", kind)
	}
}

func TestBindings_RoundTrip(t *testing.T) {
	in := map[string]string{
		"q":   "quit",
		"g g": "cursor.top",
		"j":   "cursor.down",
	}
	trie, errs := FromBindings(in)
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}

	out := trie.Bindings()
	if len(out) != len(in) {
		t.Fatalf("Bindings = %v", out)
	}
	for sequence, action := range in {
		if out[sequence] != action {
			t.Fatalf("Bindings[%q] = %q, want %q", sequence, out[sequence], action)
		}
	}
}
