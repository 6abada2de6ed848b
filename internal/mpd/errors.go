package mpd

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ACK codes from the MPD protocol.
const (
	AckNotList       = 1
	AckArg           = 2
	AckPassword      = 3
	AckPermission    = 4
	AckUnknownCmd    = 5
	AckNoExist       = 50
	AckPlaylistMax   = 51
	AckSystem        = 52
	AckPlaylistLoad  = 53
	AckUpdateAlready = 54
	AckPlayerSync    = 55
	AckExist         = 56
)

// ProtocolError is a decoded ACK response from the daemon. Its
// presence means the command reached MPD and was rejected, as opposed
// to a transport failure.
type ProtocolError struct {
	Code    int
	Index   int    // index of the failing command inside a command list
	Command string // command name as echoed by the daemon
	Message string
}

func (e *ProtocolError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("mpd: %s: %s", e.Command, e.Message)
	}
	return fmt.Sprintf("mpd: %s", e.Message)
}

// ackRe matches the payload of an ACK line:
//
//	ACK [50@0] {lsinfo} No such directory
var ackRe = regexp.MustCompile(`\[(\d+)@(\d+)\] \{([^}]*)\} (.*)`)

// ParseAck extracts a ProtocolError from err. gompd surfaces ACK
// lines as plain error strings, so this matches on the text.
func ParseAck(err error) (*ProtocolError, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	m := ackRe.FindStringSubmatch(err.Error())
	if m == nil {
		return nil, false
	}
	code, _ := strconv.Atoi(m[1])
	index, _ := strconv.Atoi(m[2])
	return &ProtocolError{
		Code:    code,
		Index:   index,
		Command: m[3],
		Message: m[4],
	}, true
}

// IsAck reports whether err is an ACK with the given code.
func IsAck(err error, code int) bool {
	pe, ok := ParseAck(err)
	return ok && pe.Code == code
}

// IsNoExist reports whether err is the daemon saying a resource does
// not exist. Callers treat this as a benign miss, for example a song
// without embedded album art.
func IsNoExist(err error) bool {
	return IsAck(err, AckNoExist)
}

// IsPermission reports whether err is a password or permission
// failure, which no amount of retrying will fix.
func IsPermission(err error) bool {
	return IsAck(err, AckPassword) || IsAck(err, AckPermission)
}
