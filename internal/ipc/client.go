package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"time"
)

// Client talks to one running instance.
type Client struct {
	conn net.Conn
}

// Dial connects to the socket at path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %s: %w", path, err)
	}
	return &Client{conn: conn}, nil
}

// DialPid connects to the instance with the given pid.
func DialPid(pid int) (*Client, error) {
	return Dial(SocketPath(pid))
}

// Discover returns the socket paths of reachable instances. Sockets
// that refuse a connection (left by dead processes) are skipped.
func Discover() ([]string, error) {
	matches, err := filepath.Glob(SocketGlob())
	if err != nil {
		return nil, fmt.Errorf("ipc: glob sockets: %w", err)
	}
	var live []string
	for _, path := range matches {
		conn, err := net.DialTimeout("unix", path, time.Second)
		if err != nil {
			continue
		}
		conn.Close()
		live = append(live, path)
	}
	return live, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send delivers a non-query envelope and returns the instance's
// acknowledgement.
func (c *Client) Send(env Envelope) (Reply, error) {
	if err := env.Validate(); err != nil {
		return Reply{}, err
	}
	c.conn.SetDeadline(time.Now().Add(5 * time.Second))
	if err := json.NewEncoder(c.conn).Encode(env); err != nil {
		return Reply{}, fmt.Errorf("ipc: send: %w", err)
	}
	var reply Reply
	if err := json.NewDecoder(c.conn).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("ipc: read reply: %w", err)
	}
	return reply, nil
}

// Query asks for the given state targets and returns the raw response:
// one JSON object per line, in request order. The instance closes the
// stream after writing it.
func (c *Client) Query(targets []string) (json.RawMessage, error) {
	env := Envelope{Kind: KindQuery, Targets: targets}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	c.conn.SetDeadline(time.Now().Add(10 * time.Second))
	if err := json.NewEncoder(c.conn).Encode(env); err != nil {
		return nil, fmt.Errorf("ipc: send: %w", err)
	}
	data, err := io.ReadAll(c.conn)
	if err != nil {
		return nil, fmt.Errorf("ipc: read response: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ipc: empty response")
	}
	return data, nil
}
