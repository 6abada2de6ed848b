package cli

import (
	"fmt"
	"os"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

func albumartCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "albumart -|<file>",
		Short: "Write the current song's album art to a file or stdout",
		Long: `Write the current song's album art to the named file, or to stdout
when the argument is "-". The embedded picture is preferred, with a
cover file in the song's directory as fallback.

Exit codes: 2 when the song has no art, 3 when nothing is playing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := args[0]
			if dest == "-" && term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("refusing to write image bytes to a terminal; redirect stdout or name a file")
			}
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				attrs, err := c.CurrentSong()
				if err != nil {
					return err
				}
				song := mpd.ParseSong(attrs)
				if song.URI == "" {
					return &ExitError{Code: 3, Err: fmt.Errorf("no current song")}
				}
				data, err := mpd.FetchArt(c, song.URI)
				if err != nil {
					return err
				}
				if len(data) == 0 {
					return &ExitError{Code: 2, Err: fmt.Errorf("no album art for %s", song.URI)}
				}
				if dest == "-" {
					_, err := os.Stdout.Write(data)
					return err
				}
				if err := os.WriteFile(dest, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), dest)
				return nil
			})
		},
	}
}
