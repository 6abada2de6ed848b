package ipc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
)

func startTestServer(t *testing.T) (*Server, *event.Bus) {
	t.Helper()
	bus := event.NewBus(16)
	path := filepath.Join(t.TempDir(), "rondo.sock")
	srv, err := NewServer(path, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		srv.Close()
		bus.Close()
	})
	return srv, bus
}

func nextEvent(t *testing.T, bus *event.Bus) event.Event {
	t.Helper()
	select {
	case ev := <-bus.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatalf("no event arrived")
		return nil
	}
}

func TestServer_SocketIsPrivate(t *testing.T) {
	srv, _ := startTestServer(t)
	info, err := os.Stat(srv.Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("socket mode = %o, want 600", perm)
	}
}

func TestServer_RemovesSocketOnClose(t *testing.T) {
	bus := event.NewBus(4)
	defer bus.Close()
	path := filepath.Join(t.TempDir(), "rondo.sock")
	srv, err := NewServer(path, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.Close()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("socket still present after Close: %v", err)
	}
}

func TestServer_ReplacesStaleSocket(t *testing.T) {
	bus := event.NewBus(4)
	defer bus.Close()
	path := filepath.Join(t.TempDir(), "rondo.sock")

	// A crashed run can leave its socket file behind.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	srv, err := NewServer(path, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer over stale socket: %v", err)
	}
	srv.Close()
}

func TestRoundTrip_Events(t *testing.T) {
	tests := []struct {
		name  string
		env   Envelope
		check func(t *testing.T, ev event.Event)
	}{
		{
			name: "switch tab",
			env:  Envelope{Kind: KindSwitchTab, Name: "lyrics"},
			check: func(t *testing.T, ev event.Event) {
				if got := ev.(event.SwitchTab).Name; got != "lyrics" {
					t.Fatalf("Name = %q", got)
				}
			},
		},
		{
			name: "status message with level",
			env:  Envelope{Kind: KindStatusMessage, Text: "hi", Level: "warn"},
			check: func(t *testing.T, ev event.Event) {
				msg := ev.(event.StatusMessage)
				if msg.Text != "hi" || msg.Level != event.LevelWarn {
					t.Fatalf("msg = %+v", msg)
				}
			},
		},
		{
			name: "index lrc",
			env:  Envelope{Kind: KindIndexLrc, Path: "/lyrics/a.lrc"},
			check: func(t *testing.T, ev event.Event) {
				if got := ev.(event.IndexLrcRequested).Path; got != "/lyrics/a.lrc" {
					t.Fatalf("Path = %q", got)
				}
			},
		},
		{
			name: "set option",
			env:  Envelope{Kind: KindSet, Name: "volume_step", Value: "10"},
			check: func(t *testing.T, ev event.Event) {
				set := ev.(event.SetOption)
				if set.Name != "volume_step" || set.Value != "10" {
					t.Fatalf("set = %+v", set)
				}
			},
		},
		{
			name: "keybind",
			env:  Envelope{Kind: KindKeybind, Keys: "g g"},
			check: func(t *testing.T, ev event.Event) {
				if got := ev.(event.Keybind).Keys; got != "g g" {
					t.Fatalf("Keys = %q", got)
				}
			},
		},
		{
			name: "tmux hook",
			env:  Envelope{Kind: KindTmuxHook, Hook: "song-changed"},
			check: func(t *testing.T, ev event.Event) {
				if got := ev.(event.TmuxHook).Hook; got != "song-changed" {
					t.Fatalf("Hook = %q", got)
				}
			},
		},
	}

	srv, bus := startTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := Dial(srv.Path())
			if err != nil {
				t.Fatalf("Dial: %v", err)
			}
			defer client.Close()

			reply, err := client.Send(tt.env)
			if err != nil {
				t.Fatalf("Send: %v", err)
			}
			if !reply.OK {
				t.Fatalf("reply = %+v", reply)
			}
			tt.check(t, nextEvent(t, bus))
		})
	}
}

func TestServer_RejectsInvalidEnvelope(t *testing.T) {
	srv, _ := startTestServer(t)
	client, err := Dial(srv.Path())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	// Bypass client-side validation to exercise the server's.
	if err := json.NewEncoder(client.conn).Encode(Envelope{Kind: KindSwitchTab}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var reply Reply
	if err := json.NewDecoder(client.conn).Decode(&reply); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if reply.OK || reply.Error == "" {
		t.Fatalf("reply = %+v, want validation error", reply)
	}
}

func TestQuery_HandsConnectionToConsumer(t *testing.T) {
	srv, bus := startTestServer(t)

	// Play the UI loop: answer the query event with some JSON.
	go func() {
		ev := <-bus.Events()
		q, ok := ev.(event.IpcQuery)
		if !ok {
			return
		}
		fmt.Fprintf(q.Conn, `{"status":{"state":"play"}}`)
		q.Conn.Close()
	}()

	client, err := Dial(srv.Path())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	raw, err := client.Query([]string{"status"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var payload struct {
		Status struct {
			State string `json:"state"`
		} `json:"status"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("Unmarshal %q: %v", raw, err)
	}
	if payload.Status.State != "play" {
		t.Fatalf("state = %q, want play", payload.Status.State)
	}
}

func TestEnvelope_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		wantErr bool
	}{
		{"query needs targets", Envelope{Kind: KindQuery}, true},
		{"query with targets", Envelope{Kind: KindQuery, Targets: []string{"status"}}, false},
		{"status message needs text", Envelope{Kind: KindStatusMessage}, true},
		{"bad level", Envelope{Kind: KindStatusMessage, Text: "x", Level: "loud"}, true},
		{"empty kind", Envelope{}, true},
		{"unknown kind", Envelope{Kind: "reboot"}, true},
		{"set needs name", Envelope{Kind: KindSet, Value: "5"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscover_SkipsDeadSockets(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	srv, _ := startTestServerAt(t, SocketPath(os.Getpid()))

	// A socket file nothing listens on.
	stale := filepath.Join(tmp, "rondo-99999.sock")
	if err := os.WriteFile(stale, nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	live, err := Discover()
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(live) != 1 || live[0] != srv.Path() {
		t.Fatalf("Discover = %v, want only %s", live, srv.Path())
	}
}

func startTestServerAt(t *testing.T, path string) (*Server, *event.Bus) {
	t.Helper()
	bus := event.NewBus(16)
	srv, err := NewServer(path, bus, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() {
		srv.Close()
		bus.Close()
	})
	return srv, bus
}
