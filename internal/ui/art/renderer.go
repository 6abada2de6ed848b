package art

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// termMu serialises raw escape output. Anything in the program that
// writes sequences outside the UI framework's renderer must hold it.
var termMu sync.Mutex

// kittyDeleteAll removes every visible kitty placement. q=2 keeps the
// terminal from answering on a connection nobody reads.
const kittyDeleteAll = "\x1b_Ga=d,d=A,q=2\x1b\\"

// Rect is a cell region of the terminal, 1-based like cursor
// addressing.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Info describes the currently placed artwork.
type Info struct {
	Format string
	Width  int
	Height int
	Bytes  int
}

func (i Info) String() string {
	if i.Format == "" {
		return fmt.Sprintf("%d bytes", i.Bytes)
	}
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Renderer routes art placement over the probed backend and remembers
// what is on screen so the pane can describe it and Cleanup can tear
// it down.
type Renderer struct {
	backend Backend
	out     io.Writer
	log     zerolog.Logger

	mu     sync.Mutex
	placed bool
	info   Info
	region Rect
}

// NewRenderer returns a renderer for the given backend writing escape
// sequences to out.
func NewRenderer(backend Backend, out io.Writer, log zerolog.Logger) *Renderer {
	return &Renderer{
		backend: backend,
		out:     out,
		log:     log.With().Str("component", "art").Str("backend", backend.String()).Logger(),
	}
}

// Backend reports the probed backend.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// Show places artwork in the given region. The image header is decoded
// for the pane's description; undecodable data is still placed, it just
// has no dimensions to report.
func (r *Renderer) Show(data []byte, region Rect) error {
	if r.backend == BackendNone {
		return nil
	}
	if len(data) == 0 {
		return errors.New("no image data")
	}

	info := Info{Bytes: len(data)}
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
	}

	r.mu.Lock()
	r.placed = true
	r.info = info
	r.region = region
	r.mu.Unlock()

	r.log.Debug().Str("image", info.String()).Int("w", region.Width).Int("h", region.Height).Msg("art placed")
	return nil
}

// Hide removes the current placement.
func (r *Renderer) Hide() {
	r.mu.Lock()
	wasPlaced := r.placed
	r.placed = false
	r.info = Info{}
	r.mu.Unlock()

	if wasPlaced && r.backend == BackendKitty {
		r.writeEscape(kittyDeleteAll)
	}
}

// Cleanup tears down backend state on exit. Safe to call more than
// once and without a placement.
func (r *Renderer) Cleanup() {
	r.Hide()
	if r.backend == BackendKitty {
		// A placement can survive a crash of the program that made
		// it, so clear unconditionally.
		r.writeEscape(kittyDeleteAll)
	}
}

// Current reports the placed artwork, if any.
func (r *Renderer) Current() (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info, r.placed
}

func (r *Renderer) writeEscape(seq string) {
	termMu.Lock()
	defer termMu.Unlock()
	if _, err := io.WriteString(r.out, seq); err != nil {
		r.log.Debug().Err(err).Msg("escape write failed")
	}
}
