package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
)

// readTimeout bounds how long a client may dawdle sending its
// envelope before the connection is dropped.
const readTimeout = 5 * time.Second

// Server accepts IPC connections and turns envelopes into events.
// Query connections are handed to the UI loop inside the IpcQuery
// event; the loop writes the response and closes them.
type Server struct {
	ln   net.Listener
	path string
	bus  *event.Bus
	log  zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewServer listens on the unix socket at path, replacing a stale
// socket left by a previous run. The socket is private to the user.
func NewServer(path string, bus *event.Bus, log zerolog.Logger) (*Server, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ipc: remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: listen: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		os.Remove(path)
		return nil, fmt.Errorf("ipc: chmod socket: %w", err)
	}

	s := &Server{
		ln:   ln,
		path: path,
		bus:  bus,
		log:  log.With().Str("component", "ipc").Logger(),
	}
	s.wg.Add(1)
	go s.accept()
	s.log.Info().Str("socket", path).Msg("listening")
	return s, nil
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Close stops the server and removes the socket file. Connections
// already handed to the UI loop are unaffected.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.ln.Close()
		os.Remove(s.path)
	})
	s.wg.Wait()
}

func (s *Server) accept() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	var env Envelope
	if err := json.NewDecoder(conn).Decode(&env); err != nil {
		s.log.Debug().Err(err).Msg("bad envelope")
		writeReply(conn, Reply{Error: "bad envelope: " + err.Error()})
		conn.Close()
		return
	}

	if err := env.Validate(); err != nil {
		writeReply(conn, Reply{Error: err.Error()})
		conn.Close()
		return
	}

	s.log.Debug().Str("kind", string(env.Kind)).Msg("request")

	if env.Kind == KindQuery {
		// The loop owns the connection from here.
		conn.SetReadDeadline(time.Time{})
		if !s.bus.Emit(event.IpcQuery{Conn: conn, Targets: env.Targets}) {
			conn.Close()
		}
		return
	}

	if ev, err := toEvent(env); err != nil {
		writeReply(conn, Reply{Error: err.Error()})
	} else if !s.bus.Emit(ev) {
		writeReply(conn, Reply{Error: "shutting down"})
	} else {
		writeReply(conn, Reply{OK: true})
	}
	conn.Close()
}

func toEvent(env Envelope) (event.Event, error) {
	switch env.Kind {
	case KindIndexLrc:
		return event.IndexLrcRequested{Path: env.Path}, nil
	case KindStatusMessage:
		return event.StatusMessage{Text: env.Text, Level: parseLevel(env.Level)}, nil
	case KindTmuxHook:
		return event.TmuxHook{Hook: env.Hook}, nil
	case KindSet:
		return event.SetOption{Name: env.Name, Value: env.Value}, nil
	case KindKeybind:
		return event.Keybind{Keys: env.Keys}, nil
	case KindSwitchTab:
		return event.SwitchTab{Name: env.Name}, nil
	default:
		return nil, fmt.Errorf("unhandled kind %q", env.Kind)
	}
}

func parseLevel(level string) event.Level {
	switch level {
	case "warn":
		return event.LevelWarn
	case "error":
		return event.LevelError
	default:
		return event.LevelInfo
	}
}

func writeReply(conn net.Conn, r Reply) {
	conn.SetWriteDeadline(time.Now().Add(readTimeout))
	json.NewEncoder(conn).Encode(r)
}
