package work

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/lrc"
)

func (w *Worker) indexLyrics(job IndexLyrics) {
	index, skipped, err := lrc.IndexDir(job.Dir)
	if err != nil {
		w.log.Warn().Err(err).Str("dir", job.Dir).Msg("lyrics scan failed")
	} else {
		w.log.Info().Str("dir", job.Dir).Int("files", index.Len()).Int("skipped", skipped).Msg("lyrics indexed")
	}
	w.bus.Emit(event.WorkDone{Result: event.LyricsIndexed{
		Dir:     job.Dir,
		Index:   index,
		Skipped: skipped,
		Err:     err,
	}})
}

func (w *Worker) indexSingle(job IndexSingleLrc) {
	if job.Removed {
		w.bus.Emit(event.WorkDone{Result: event.LrcFileIndexed{
			Path:    job.Path,
			Removed: true,
		}})
		return
	}
	entry, err := lrc.ReadEntry(job.Path)
	if err != nil {
		w.log.Debug().Err(err).Str("path", job.Path).Msg("lrc file not indexable")
	}
	w.bus.Emit(event.WorkDone{Result: event.LrcFileIndexed{
		Path:  job.Path,
		Entry: entry,
		Err:   err,
	}})
}

func (w *Worker) runExternal(job External) {
	result := event.ExternalDone{
		Note:       job.Note,
		AddToQueue: job.AddToQueue,
	}
	defer func() {
		w.bus.Emit(event.WorkDone{Result: result})
	}()

	if len(job.Argv) == 0 {
		result.Err = fmt.Errorf("%s: empty command", job.Note)
		return
	}

	cmd := exec.CommandContext(w.ctx, job.Argv[0], job.Argv[1:]...)
	cmd.Dir = job.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	w.log.Info().Strs("argv", job.Argv).Msg("running external command")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		result.Err = fmt.Errorf("%s: %s", job.Note, lastLine(msg))
		w.log.Warn().Err(err).Str("stderr", lastLine(msg)).Msg("external command failed")
		return
	}

	if job.CaptureFile {
		result.File = lastLine(stdout.String())
		if result.File == "" {
			result.Err = fmt.Errorf("%s: command reported no output file", job.Note)
			return
		}
		result.Title = readTitle(result.File)
	}

	if job.ShowOutput {
		w.bus.Emit(event.InfoModal{Title: job.Note, Rows: outputRows(stdout.String())})
	}
}

// outputRows shapes captured stdout for the info modal, one row per
// line.
func outputRows(out string) [][2]string {
	out = strings.TrimRight(out, "\n")
	if strings.TrimSpace(out) == "" {
		return [][2]string{{"", "(no output)"}}
	}
	lines := strings.Split(out, "\n")
	rows := make([][2]string, len(lines))
	for i, line := range lines {
		rows[i] = [2]string{"", strings.TrimRight(line, "\r")}
	}
	return rows
}

// readTitle pulls artist/title tags out of a media file for the
// completion message. Untagged or unreadable files fall back to the
// base name.
func readTitle(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return filepath.Base(path)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil || meta.Title() == "" {
		return filepath.Base(path)
	}
	if artist := meta.Artist(); artist != "" {
		return artist + " - " + meta.Title()
	}
	return meta.Title()
}

// lastLine returns the final non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
