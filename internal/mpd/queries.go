package mpd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
)

// Targets route QueryDone events to the component that asked.
const (
	TargetStatus        = "status"
	TargetQueue         = "queue"
	TargetBrowser       = "browser"
	TargetSearch        = "search"
	TargetPlaylists     = "playlists"
	TargetPlaylistSongs = "playlist.songs"
	TargetOutputs       = "outputs"
	TargetArt           = "art"
	TargetSongInfo      = "song.info"
	TargetUpdate        = "update"
	TargetCommand       = "command"
	TargetCommands      = "commands"
)

// StatusUpdate is the payload of a status query: the daemon status
// plus the current song, fetched together so the header renders from
// one consistent snapshot.
type StatusUpdate struct {
	Status Status
	Song   Song
}

// StatusQuery fetches status and the current song. Pending status
// queries supersede each other.
func StatusQuery() Query {
	return Query{
		Target:    TargetStatus,
		ReplaceID: "status",
		Do: func(c *gompd.Client) (any, error) {
			attrs, err := c.Status()
			if err != nil {
				return nil, err
			}
			upd := StatusUpdate{Status: ParseStatus(attrs)}
			song, err := c.CurrentSong()
			if err != nil {
				return nil, err
			}
			upd.Song = ParseSong(song)
			return upd, nil
		},
	}
}

// QueueQuery fetches the full play queue.
func QueueQuery() Query {
	return Query{
		Target:    TargetQueue,
		ReplaceID: "queue",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.PlaylistInfo(-1, -1)
			if err != nil {
				return nil, err
			}
			return ParseSongs(list), nil
		},
	}
}

// BrowseResult is a database directory listing.
type BrowseResult struct {
	Path    string
	Entries []Entry
}

// BrowseQuery lists the database directory at path ("" for the root).
// Pending browse queries supersede each other, so only the newest
// cursor position is fetched.
func BrowseQuery(path string) Query {
	return Query{
		Target:    TargetBrowser,
		ReplaceID: "browse",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.ListInfo(path)
			if err != nil {
				return nil, err
			}
			return BrowseResult{Path: path, Entries: ParseEntries(list)}, nil
		},
	}
}

// SearchResult carries the songs matching a search input.
type SearchResult struct {
	Query string
	Songs []Song
}

// SearchQuery runs a case-insensitive any-tag search. Pending
// searches supersede each other so only the latest input is answered.
func SearchQuery(input string) Query {
	return Query{
		Target:    TargetSearch,
		ReplaceID: "search",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.Search("any", input)
			if err != nil {
				return nil, err
			}
			return SearchResult{Query: input, Songs: ParseSongs(list)}, nil
		},
	}
}

// PlaylistsQuery lists stored playlists.
func PlaylistsQuery() Query {
	return Query{
		Target:    TargetPlaylists,
		ReplaceID: "playlists",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.ListPlaylists()
			if err != nil {
				return nil, err
			}
			return ParsePlaylists(list), nil
		},
	}
}

// PlaylistSongs carries the contents of one stored playlist.
type PlaylistSongs struct {
	Name  string
	Songs []Song
}

// PlaylistContentsQuery fetches the songs of a stored playlist.
func PlaylistContentsQuery(name string) Query {
	return Query{
		Target:    TargetPlaylistSongs,
		ReplaceID: "playlist.songs",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.PlaylistContents(name)
			if err != nil {
				return nil, err
			}
			return PlaylistSongs{Name: name, Songs: ParseSongs(list)}, nil
		},
	}
}

// OutputsQuery lists the daemon's audio outputs.
func OutputsQuery() Query {
	return Query{
		Target:    TargetOutputs,
		ReplaceID: "outputs",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.ListOutputs()
			if err != nil {
				return nil, err
			}
			return ParseOutputs(list), nil
		},
	}
}

// CommandList is the set of command names this connection may use.
// Daemons with permission restrictions report a reduced set.
type CommandList []string

// CommandsQuery fetches the permitted command names.
func CommandsQuery() Query {
	return Query{
		Target:    TargetCommands,
		ReplaceID: "commands",
		Do: func(c *gompd.Client) (any, error) {
			blocks, err := c.Command("commands").AttrsList("command")
			if err != nil {
				return nil, err
			}
			names := make(CommandList, 0, len(blocks))
			for _, attrs := range blocks {
				if name := attrs["command"]; name != "" {
					names = append(names, name)
				}
			}
			return names, nil
		},
	}
}

// ArtData is the payload of an album art query. Data is nil when the
// daemon has no art for the song, which is a miss rather than an
// error.
type ArtData struct {
	URI  string
	Data []byte
}

// ArtQuery fetches album art for uri: embedded picture first, cover
// file in the song's directory as fallback.
func ArtQuery(uri string) Query {
	return Query{
		Target:    TargetArt,
		ReplaceID: "art",
		Do: func(c *gompd.Client) (any, error) {
			data, err := FetchArt(c, uri)
			if err != nil {
				return nil, err
			}
			return ArtData{URI: uri, Data: data}, nil
		},
	}
}

// FetchArt reads album art over an existing client. A nil slice with
// a nil error means the daemon has none.
func FetchArt(c *gompd.Client, uri string) ([]byte, error) {
	data, err := c.ReadPicture(uri)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	if err != nil && !artMiss(err) {
		return nil, err
	}
	data, err = c.AlbumArt(uri)
	if err != nil {
		if artMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// artMiss reports errors that mean "no art here": the song has none,
// or the daemon predates the command.
func artMiss(err error) bool {
	return IsNoExist(err) || IsAck(err, AckUnknownCmd) || IsAck(err, AckArg)
}

// SongDetail is the payload of a song info query: the decoded song,
// its full tag set, and any stickers attached to it.
type SongDetail struct {
	Song     Song
	Tags     map[string]string
	Stickers []TagPair
}

// TagPair is one name/value pair, used where order matters.
type TagPair struct {
	Name  string
	Value string
}

// SongDetailQuery fetches everything known about the song at uri for
// the info view. Sticker errors are swallowed: a daemon without a
// sticker database simply yields none.
func SongDetailQuery(uri string) Query {
	return Query{
		Target:    TargetSongInfo,
		ReplaceID: "song.info",
		Do: func(c *gompd.Client) (any, error) {
			list, err := c.Find("file", uri)
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				return nil, &ProtocolError{Code: AckNoExist, Command: "find", Message: "no such song"}
			}
			detail := SongDetail{
				Song: ParseSong(list[0]),
				Tags: map[string]string(list[0]),
			}
			detail.Stickers = fetchStickers(c, uri)
			return detail, nil
		},
	}
}

func fetchStickers(c *gompd.Client, uri string) []TagPair {
	blocks, err := c.Command("sticker list song %s", uri).AttrsList("sticker")
	if err != nil {
		return nil
	}
	stickers := make([]TagPair, 0, len(blocks))
	for _, attrs := range blocks {
		name, value, ok := strings.Cut(attrs["sticker"], "=")
		if !ok {
			continue
		}
		stickers = append(stickers, TagPair{Name: name, Value: value})
	}
	sort.Slice(stickers, func(i, j int) bool { return stickers[i].Name < stickers[j].Name })
	return stickers
}

// UpdateStarted is the payload of an update query.
type UpdateStarted struct {
	JobID int
}

// UpdateQuery asks the daemon to rescan its database, or the subtree
// at uri when non-empty.
func UpdateQuery(uri string) Query {
	return Query{
		Target: TargetUpdate,
		Do: func(c *gompd.Client) (any, error) {
			id, err := c.Update(uri)
			if err != nil {
				return nil, err
			}
			return UpdateStarted{JobID: id}, nil
		},
	}
}

// command wraps a result-less client call as a query on the command
// target, so failures surface in the status bar. Every submission
// runs: queued adds or skips must not drop when the worker is busy
// or reconnecting.
func command(name string, do func(c *gompd.Client) error) Query {
	return Query{
		Target: TargetCommand,
		Do: func(c *gompd.Client) (any, error) {
			return nil, do(c)
		},
	}
}

// setCommand is command for absolute state setters, where only the
// newest pending value matters. A held volume key queues one setvol.
func setCommand(name string, do func(c *gompd.Client) error) Query {
	q := command(name, do)
	q.ReplaceID = "cmd." + name
	return q
}

// PlayCmd starts playback at queue position pos, or resumes when pos
// is negative.
func PlayCmd(pos int) Query {
	return setCommand("play", func(c *gompd.Client) error { return c.Play(pos) })
}

// PauseCmd sets the pause state.
func PauseCmd(on bool) Query {
	return setCommand("pause", func(c *gompd.Client) error { return c.Pause(on) })
}

// StopCmd stops playback.
func StopCmd() Query {
	return setCommand("stop", func(c *gompd.Client) error { return c.Stop() })
}

// NextCmd skips to the next queue entry.
func NextCmd() Query {
	return command("next", func(c *gompd.Client) error { return c.Next() })
}

// PrevCmd skips to the previous queue entry.
func PrevCmd() Query {
	return command("previous", func(c *gompd.Client) error { return c.Previous() })
}

// SetVolumeCmd sets the mixer volume, clamped to 0..100.
func SetVolumeCmd(volume int) Query {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return setCommand("setvol", func(c *gompd.Client) error { return c.SetVolume(volume) })
}

// ParseSeek decodes the user-facing seek argument forms: "+N"/"-N"
// second offsets, "m:ss" positions, and plain seconds. Relative
// reports whether the argument carried a sign.
func ParseSeek(arg string) (time.Duration, bool, error) {
	if arg == "" {
		return 0, false, fmt.Errorf("seek: missing position")
	}

	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	if mins, secs, ok := strings.Cut(arg, ":"); ok {
		mn, err1 := strconv.Atoi(strings.TrimPrefix(strings.TrimPrefix(mins, "+"), "-"))
		sc, err2 := strconv.Atoi(secs)
		if err1 != nil || err2 != nil || sc < 0 || sc > 59 {
			return 0, false, fmt.Errorf("seek: bad position %q", arg)
		}
		d := time.Duration(mn)*time.Minute + time.Duration(sc)*time.Second
		if strings.HasPrefix(arg, "-") {
			d = -d
		}
		return d, relative, nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, false, fmt.Errorf("seek: bad position %q", arg)
	}
	return time.Duration(n) * time.Second, relative, nil
}

// SeekCmd seeks within the current song. With relative set, d is an
// offset from the current position and may be negative; offsets
// accumulate, so only absolute seeks supersede each other.
func SeekCmd(d time.Duration, relative bool) Query {
	do := func(c *gompd.Client) error { return c.SeekCur(d, relative) }
	if relative {
		return command("seekcur", do)
	}
	return setCommand("seekcur", do)
}

// RepeatCmd sets repeat mode.
func RepeatCmd(on bool) Query {
	return setCommand("repeat", func(c *gompd.Client) error { return c.Repeat(on) })
}

// RandomCmd sets random mode.
func RandomCmd(on bool) Query {
	return setCommand("random", func(c *gompd.Client) error { return c.Random(on) })
}

// SingleCmd sets single mode.
func SingleCmd(on bool) Query {
	return setCommand("single", func(c *gompd.Client) error { return c.Single(on) })
}

// ConsumeCmd sets consume mode.
func ConsumeCmd(on bool) Query {
	return setCommand("consume", func(c *gompd.Client) error { return c.Consume(on) })
}

// AddCmd appends the database URI (song or directory) to the queue.
func AddCmd(uri string) Query {
	return command("add", func(c *gompd.Client) error { return c.Add(uri) })
}

// ClearCmd empties the queue.
func ClearCmd() Query {
	return command("clear", func(c *gompd.Client) error { return c.Clear() })
}

// DeleteCmd removes the song at queue position pos.
func DeleteCmd(pos int) Query {
	return command("delete", func(c *gompd.Client) error { return c.Delete(pos, -1) })
}

// MoveCmd moves the song at queue position from to position to.
func MoveCmd(from, to int) Query {
	return command("move", func(c *gompd.Client) error { return c.Move(from, -1, to) })
}

// ShuffleCmd shuffles the whole queue.
func ShuffleCmd() Query {
	return command("shuffle", func(c *gompd.Client) error { return c.Shuffle(-1, -1) })
}

// PlaylistLoadCmd appends a stored playlist to the queue.
func PlaylistLoadCmd(name string) Query {
	return command("load", func(c *gompd.Client) error { return c.PlaylistLoad(name, -1, -1) })
}

// PlaylistRemoveCmd deletes a stored playlist.
func PlaylistRemoveCmd(name string) Query {
	return command("rm", func(c *gompd.Client) error { return c.PlaylistRemove(name) })
}

// PlaylistSaveCmd saves the current queue as a stored playlist.
func PlaylistSaveCmd(name string) Query {
	return command("save", func(c *gompd.Client) error { return c.PlaylistSave(name) })
}

// OutputCmd enables or disables an audio output.
func OutputCmd(id int, enable bool) Query {
	return command("output", func(c *gompd.Client) error {
		if enable {
			return c.EnableOutput(id)
		}
		return c.DisableOutput(id)
	})
}

// MountCmd mounts a storage backend at path.
func MountCmd(path, storage string) Query {
	return command("mount", func(c *gompd.Client) error {
		return c.Command("mount %s %s", path, storage).OK()
	})
}

// UnmountCmd unmounts the storage at path.
func UnmountCmd(path string) Query {
	return command("unmount", func(c *gompd.Client) error {
		return c.Command("unmount %s", path).OK()
	})
}
