// Package logtail feeds the logs pane.
//
// # Overview
//
// The logs pane shows rondo's own log file: the tail of the file at
// startup, then every line written while the program runs. This package
// provides both halves:
//
//  1. Read: extract the last N lines from the log file to seed the pane
//  2. Writer: an io.Writer that mirrors new log lines onto the event bus
//
// # Reading Log Files
//
// The Read function uses a ring buffer to extract the last maxLines from
// a file, regardless of file size:
//
//	1. Allocate ring buffer of size maxLines
//	2. For each line in file:
//	   - Store line at current index
//	   - Increment index (wrapping at maxLines)
//	   - Track total lines seen
//	3. If total < maxLines: return first 'count' entries
//	4. If total >= maxLines: return buffer starting from current index
//
// This scans the file once, uses O(maxLines) memory rather than
// O(file size), and returns lines in chronological order.
//
// Example usage:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		log.Warn().Err(err).Msg("failed to seed logs pane")
//	}
//
// # Live Mirroring
//
// Writer sits behind the logger's io.MultiWriter next to the log file.
// Each Write is split into lines and each non-blank line is emitted as
// an event.LogLine. Emission uses TryEmit: when the bus is full the
// line is dropped rather than blocking the logger, since the file keeps
// the full record and the pane only needs a live view.
//
// # Error Handling
//
// Read returns nil, nil for non-existent files: a fresh install has no
// log yet and the pane simply starts empty. Other errors (permission
// denied, I/O errors) are returned wrapped.
//
// Writer never returns an error. A log call must not fail because the
// UI is busy.
//
// # Design Rationale
//
// This package is intentionally simple and focused:
//   - No streaming or file watching (Writer makes that unnecessary)
//   - No log rotation handling (reads current file only)
//   - No styling (the logs pane renders lines with its own styles)
//   - No filtering or searching (that's the UI's job)
package logtail
