package lrc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleLrc = `[ar:The Orchard]
[ti:Evening Rain]
[al:First Light]
[length:03:45]

[00:12.00]Evening rain on the window
[00:17.50][01:02.00]Counting cars in the dark
[00:24.130]Every light in the city
`

func TestParseMetadata(t *testing.T) {
	lyr, err := Parse(strings.NewReader(sampleLrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if lyr.Artist != "The Orchard" {
		t.Errorf("Artist = %q, want %q", lyr.Artist, "The Orchard")
	}
	if lyr.Title != "Evening Rain" {
		t.Errorf("Title = %q, want %q", lyr.Title, "Evening Rain")
	}
	if lyr.Album != "First Light" {
		t.Errorf("Album = %q, want %q", lyr.Album, "First Light")
	}
	if want := 3*time.Minute + 45*time.Second; lyr.Length != want {
		t.Errorf("Length = %v, want %v", lyr.Length, want)
	}
}

func TestParseTimestampsSortedAndRepeated(t *testing.T) {
	lyr, err := Parse(strings.NewReader(sampleLrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(lyr.Lines) != 4 {
		t.Fatalf("len(Lines) = %d, want 4", len(lyr.Lines))
	}
	for i := 1; i < len(lyr.Lines); i++ {
		if lyr.Lines[i].At < lyr.Lines[i-1].At {
			t.Fatalf("timestamps not monotonic: %v after %v", lyr.Lines[i].At, lyr.Lines[i-1].At)
		}
	}
	// The repeated line appears at both of its timestamps.
	last := lyr.Lines[len(lyr.Lines)-1]
	if last.Text != "Counting cars in the dark" {
		t.Errorf("last line = %q, want repeated line", last.Text)
	}
	if want := time.Minute + 2*time.Second; last.At != want {
		t.Errorf("last line at %v, want %v", last.At, want)
	}
}

func TestParseFractionPrecision(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"centiseconds", "[00:01.50]x", time.Second + 500*time.Millisecond},
		{"milliseconds", "[00:01.505]x", time.Second + 505*time.Millisecond},
		{"no fraction", "[02:03]x", 2*time.Minute + 3*time.Second},
		{"big minutes", "[61:00]x", 61 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lyr, err := Parse(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if len(lyr.Lines) != 1 {
				t.Fatalf("len(Lines) = %d, want 1", len(lyr.Lines))
			}
			if lyr.Lines[0].At != tt.want {
				t.Errorf("At = %v, want %v", lyr.Lines[0].At, tt.want)
			}
		})
	}
}

func TestParseOffsetShiftsEarlier(t *testing.T) {
	in := "[offset:+500]\n[00:10.00]line"
	lyr, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if want := 9*time.Second + 500*time.Millisecond; lyr.Lines[0].At != want {
		t.Errorf("At = %v, want %v", lyr.Lines[0].At, want)
	}
}

func TestParseSkipsGarbage(t *testing.T) {
	in := "not a tag line\n[12:99.00]bad seconds\n[00:05.00]good line\n"
	lyr, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(lyr.Lines) != 1 || lyr.Lines[0].Text != "good line" {
		t.Fatalf("Lines = %+v, want only the good line", lyr.Lines)
	}
}

func TestLineAt(t *testing.T) {
	lyr, err := Parse(strings.NewReader(sampleLrc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"before first", 5 * time.Second, -1},
		{"on first", 12 * time.Second, 0},
		{"between", 20 * time.Second, 1},
		{"after last", 2 * time.Minute, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lyr.LineAt(tt.elapsed); got != tt.want {
				t.Errorf("LineAt(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

func writeLrc(t *testing.T, dir, name, artist, title, length string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("[ar:" + artist + "]\n")
	b.WriteString("[ti:" + title + "]\n")
	if length != "" {
		b.WriteString("[length:" + length + "]\n")
	}
	b.WriteString("[00:01.00]first line\n")
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestIndexDirAndLookup(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	one := writeLrc(t, dir, "one.lrc", "The Orchard", "Evening Rain", "03:45")
	two := writeLrc(t, sub, "two.lrc", "Someone Else", "Other Song", "")
	// Same artist/title, different recording length.
	long := writeLrc(t, sub, "long.lrc", "The Orchard", "Evening Rain", "08:00")
	if err := os.WriteFile(filepath.Join(dir, "noise.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write noise: %v", err)
	}
	// Missing ar/ti makes the file unindexable.
	if err := os.WriteFile(filepath.Join(dir, "broken.lrc"), []byte("[00:01.00]untagged"), 0o644); err != nil {
		t.Fatalf("write broken: %v", err)
	}

	idx, skipped, err := IndexDir(dir)
	if err != nil {
		t.Fatalf("IndexDir failed: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	if got, ok := idx.Lookup("the orchard", "evening rain", 3*time.Minute+46*time.Second); !ok || got != one {
		t.Errorf("Lookup with close length = %q, %v; want %q", got, ok, one)
	}
	if got, ok := idx.Lookup("The Orchard", "Evening Rain", 8*time.Minute); !ok || got != long {
		t.Errorf("Lookup long recording = %q, %v; want %q", got, ok, long)
	}
	if got, ok := idx.Lookup("Someone  Else", "Other Song", 0); !ok || got != two {
		t.Errorf("Lookup without length = %q, %v; want %q", got, ok, two)
	}
	if _, ok := idx.Lookup("nobody", "nothing", 0); ok {
		t.Error("Lookup for unknown song succeeded, want miss")
	}
}

func TestIndexRemovePath(t *testing.T) {
	dir := t.TempDir()
	path := writeLrc(t, dir, "one.lrc", "A", "B", "")

	idx := NewIndex()
	if _, err := idx.AddFile(path); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if _, ok := idx.Lookup("A", "B", 0); !ok {
		t.Fatal("Lookup after AddFile failed")
	}

	idx.RemovePath(path)
	if _, ok := idx.Lookup("A", "B", 0); ok {
		t.Error("Lookup after RemovePath succeeded, want miss")
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
}

func TestIndexReAddReplaces(t *testing.T) {
	dir := t.TempDir()
	path := writeLrc(t, dir, "one.lrc", "A", "B", "")

	idx := NewIndex()
	if _, err := idx.AddFile(path); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	// Rewrite with new metadata and re-add.
	writeLrc(t, dir, "one.lrc", "A", "C", "")
	if _, err := idx.AddFile(path); err != nil {
		t.Fatalf("AddFile (again) failed: %v", err)
	}

	if _, ok := idx.Lookup("A", "B", 0); ok {
		t.Error("stale entry survived re-add")
	}
	if _, ok := idx.Lookup("A", "C", 0); !ok {
		t.Error("new entry missing after re-add")
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}
