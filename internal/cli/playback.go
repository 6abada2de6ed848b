package cli

import (
	"fmt"
	"strconv"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

func playCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play [pos]",
		Short: "Start or resume playback, optionally at a queue position",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos := -1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return fmt.Errorf("play: bad queue position %q", args[0])
				}
				pos = n
			}
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Play(pos)
			})
		},
	}
}

func pauseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Pause(true)
			})
		},
	}
}

func toggleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle between play and pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				attrs, err := c.Status()
				if err != nil {
					return err
				}
				switch mpd.ParseStatus(attrs).State {
				case mpd.StatePlay:
					return c.Pause(true)
				case mpd.StatePause:
					return c.Pause(false)
				default:
					return c.Play(-1)
				}
			})
		},
	}
}

func stopCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Stop()
			})
		},
	}
}

func nextCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Skip to the next song in the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Next()
			})
		},
	}
}

func prevCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Skip to the previous song in the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Previous()
			})
		},
	}
}
