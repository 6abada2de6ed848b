package mpd

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
)

// Play states reported by MPD.
const (
	StatePlay  = "play"
	StatePause = "pause"
	StateStop  = "stop"
)

// Status is the decoded response of the status command.
type Status struct {
	State   string
	Volume  int // -1 when the daemon reports none (no outputs)
	Repeat  bool
	Random  bool
	Single  bool
	Consume bool

	SongPos    int // queue position of the current song, -1 when stopped
	SongID     int
	NextSongID int

	Elapsed  time.Duration
	Duration time.Duration
	Bitrate  int
	Audio    string

	QueueVersion int
	QueueLength  int
	UpdatingDB   int // running update job id, 0 when idle
	Error        string
}

// Playing reports whether playback is running (not paused or stopped).
func (s Status) Playing() bool { return s.State == StatePlay }

// Stopped reports whether the player is in the stop state.
func (s Status) Stopped() bool { return s.State == StateStop }

// MarshalJSON renders the status with MPD's field names and durations
// in seconds, the shape the CLI and IPC queries hand to scripts.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State        string  `json:"state"`
		Volume       int     `json:"volume"`
		Repeat       bool    `json:"repeat"`
		Random       bool    `json:"random"`
		Single       bool    `json:"single"`
		Consume      bool    `json:"consume"`
		Song         int     `json:"song"`
		SongID       int     `json:"songid"`
		NextSongID   int     `json:"nextsongid"`
		Elapsed      float64 `json:"elapsed"`
		Duration     float64 `json:"duration"`
		Bitrate      int     `json:"bitrate,omitempty"`
		Audio        string  `json:"audio,omitempty"`
		QueueVersion int     `json:"playlist"`
		QueueLength  int     `json:"playlistlength"`
		UpdatingDB   int     `json:"updating_db,omitempty"`
		Error        string  `json:"error,omitempty"`
	}{
		State:        s.State,
		Volume:       s.Volume,
		Repeat:       s.Repeat,
		Random:       s.Random,
		Single:       s.Single,
		Consume:      s.Consume,
		Song:         s.SongPos,
		SongID:       s.SongID,
		NextSongID:   s.NextSongID,
		Elapsed:      s.Elapsed.Seconds(),
		Duration:     s.Duration.Seconds(),
		Bitrate:      s.Bitrate,
		Audio:        s.Audio,
		QueueVersion: s.QueueVersion,
		QueueLength:  s.QueueLength,
		UpdatingDB:   s.UpdatingDB,
		Error:        s.Error,
	})
}

// ParseStatus decodes a status response. Missing keys take zero
// values; volume and song position default to -1 to distinguish
// "absent" from a real zero.
func ParseStatus(attrs gompd.Attrs) Status {
	st := Status{
		State:        attrs["state"],
		Volume:       atoiDefault(attrs["volume"], -1),
		Repeat:       attrs["repeat"] == "1",
		Random:       attrs["random"] == "1",
		Single:       attrs["single"] == "1" || attrs["single"] == "oneshot",
		Consume:      attrs["consume"] == "1" || attrs["consume"] == "oneshot",
		SongPos:      atoiDefault(attrs["song"], -1),
		SongID:       atoiDefault(attrs["songid"], -1),
		NextSongID:   atoiDefault(attrs["nextsongid"], -1),
		Elapsed:      secondsDuration(attrs["elapsed"]),
		Duration:     secondsDuration(attrs["duration"]),
		Bitrate:      atoiDefault(attrs["bitrate"], 0),
		Audio:        attrs["audio"],
		QueueVersion: atoiDefault(attrs["playlist"], 0),
		QueueLength:  atoiDefault(attrs["playlistlength"], 0),
		UpdatingDB:   atoiDefault(attrs["updating_db"], 0),
		Error:        attrs["error"],
	}
	if st.Duration == 0 {
		// Older daemons only send "time: elapsed:total".
		if _, total, ok := strings.Cut(attrs["time"], ":"); ok {
			st.Duration = secondsDuration(total)
		}
	}
	return st
}

// Song is one database or queue entry.
type Song struct {
	URI          string
	Title        string
	Artist       string
	Album        string
	AlbumArtist  string
	Track        string
	Disc         string
	Date         string
	Genre        string
	Composer     string
	Duration     time.Duration
	LastModified string

	// Queue fields; -1 for songs outside the queue.
	Pos int
	ID  int
}

// DisplayTitle returns the title, falling back to the URI basename
// for untagged files.
func (s Song) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if i := strings.LastIndexByte(s.URI, '/'); i >= 0 {
		return s.URI[i+1:]
	}
	return s.URI
}

// MarshalJSON mirrors MPD's lowercase tag names; see Status.
func (s Song) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URI          string  `json:"file"`
		Title        string  `json:"title,omitempty"`
		Artist       string  `json:"artist,omitempty"`
		Album        string  `json:"album,omitempty"`
		AlbumArtist  string  `json:"albumartist,omitempty"`
		Track        string  `json:"track,omitempty"`
		Disc         string  `json:"disc,omitempty"`
		Date         string  `json:"date,omitempty"`
		Genre        string  `json:"genre,omitempty"`
		Composer     string  `json:"composer,omitempty"`
		Duration     float64 `json:"duration"`
		LastModified string  `json:"last_modified,omitempty"`
		Pos          int     `json:"pos"`
		ID           int     `json:"id"`
	}{
		URI:          s.URI,
		Title:        s.Title,
		Artist:       s.Artist,
		Album:        s.Album,
		AlbumArtist:  s.AlbumArtist,
		Track:        s.Track,
		Disc:         s.Disc,
		Date:         s.Date,
		Genre:        s.Genre,
		Composer:     s.Composer,
		Duration:     s.Duration.Seconds(),
		LastModified: s.LastModified,
		Pos:          s.Pos,
		ID:           s.ID,
	})
}

// ParseSong decodes one song block.
func ParseSong(attrs gompd.Attrs) Song {
	return Song{
		URI:          attrs["file"],
		Title:        attrs["Title"],
		Artist:       attrs["Artist"],
		Album:        attrs["Album"],
		AlbumArtist:  attrs["AlbumArtist"],
		Track:        attrs["Track"],
		Disc:         attrs["Disc"],
		Date:         attrs["Date"],
		Genre:        attrs["Genre"],
		Composer:     attrs["Composer"],
		Duration:     secondsDuration(attrs["duration"]),
		LastModified: attrs["Last-Modified"],
		Pos:          atoiDefault(attrs["Pos"], -1),
		ID:           atoiDefault(attrs["Id"], -1),
	}
}

// ParseSongs decodes a list of song blocks, skipping entries without
// a file key.
func ParseSongs(list []gompd.Attrs) []Song {
	songs := make([]Song, 0, len(list))
	for _, attrs := range list {
		if attrs["file"] == "" {
			continue
		}
		songs = append(songs, ParseSong(attrs))
	}
	return songs
}

// EntryKind tags a browse listing entry.
type EntryKind int

const (
	EntryDir EntryKind = iota
	EntrySong
	EntryPlaylist
)

// Entry is one row of a database directory listing.
type Entry struct {
	Kind EntryKind
	URI  string
	Song Song // populated for EntrySong
}

// Name returns the entry's display name, the last path component of
// its URI.
func (e Entry) Name() string {
	if i := strings.LastIndexByte(e.URI, '/'); i >= 0 {
		return e.URI[i+1:]
	}
	return e.URI
}

// ParseEntries decodes an lsinfo response into directory, song, and
// playlist entries, in server order.
func ParseEntries(list []gompd.Attrs) []Entry {
	entries := make([]Entry, 0, len(list))
	for _, attrs := range list {
		switch {
		case attrs["directory"] != "":
			entries = append(entries, Entry{Kind: EntryDir, URI: attrs["directory"]})
		case attrs["file"] != "":
			entries = append(entries, Entry{Kind: EntrySong, URI: attrs["file"], Song: ParseSong(attrs)})
		case attrs["playlist"] != "":
			entries = append(entries, Entry{Kind: EntryPlaylist, URI: attrs["playlist"]})
		}
	}
	return entries
}

// Output is one audio output of the daemon.
type Output struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Plugin  string `json:"plugin"`
	Enabled bool   `json:"enabled"`
}

// ParseOutputs decodes an outputs response.
func ParseOutputs(list []gompd.Attrs) []Output {
	outs := make([]Output, 0, len(list))
	for _, attrs := range list {
		outs = append(outs, Output{
			ID:      atoiDefault(attrs["outputid"], 0),
			Name:    attrs["outputname"],
			Plugin:  attrs["plugin"],
			Enabled: attrs["outputenabled"] == "1",
		})
	}
	return outs
}

// Playlist is one stored playlist.
type Playlist struct {
	Name         string
	LastModified string
}

// ParsePlaylists decodes a listplaylists response.
func ParsePlaylists(list []gompd.Attrs) []Playlist {
	pls := make([]Playlist, 0, len(list))
	for _, attrs := range list {
		if attrs["playlist"] == "" {
			continue
		}
		pls = append(pls, Playlist{
			Name:         attrs["playlist"],
			LastModified: attrs["Last-Modified"],
		})
	}
	return pls
}

// Mount is one mounted storage of the daemon.
type Mount struct {
	Path    string `json:"mount"`
	Storage string `json:"storage"`
}

// ParseMounts decodes a listmounts response.
func ParseMounts(list []gompd.Attrs) []Mount {
	mounts := make([]Mount, 0, len(list))
	for _, attrs := range list {
		mounts = append(mounts, Mount{
			Path:    attrs["mount"],
			Storage: attrs["storage"],
		})
	}
	return mounts
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// secondsDuration parses MPD's fractional-seconds fields ("123.456").
func secondsDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
