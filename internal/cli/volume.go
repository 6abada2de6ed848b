package cli

import (
	"fmt"
	"strconv"
	"strings"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

func volumeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "volume [value|+N|-N|get]",
		Short: "Set, adjust, or print the mixer volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "get"
			if len(args) == 1 {
				arg = args[0]
			}
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				attrs, err := c.Status()
				if err != nil {
					return err
				}
				current := mpd.ParseStatus(attrs).Volume
				if arg == "get" {
					if current < 0 {
						return fmt.Errorf("volume: no mixer available")
					}
					fmt.Fprintln(cmd.OutOrStdout(), current)
					return nil
				}
				target, err := volumeTarget(arg, current)
				if err != nil {
					return err
				}
				return c.SetVolume(target)
			})
		},
	}
}

// volumeTarget resolves a volume argument against the current level.
// "+N" and "-N" step from current; plain numbers are absolute. Either
// way the result is clamped to 0..100.
func volumeTarget(arg string, current int) (int, error) {
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "+"))
	if err != nil {
		return 0, fmt.Errorf("volume: bad value %q", arg)
	}
	target := n
	if relative {
		target = current + n
	}
	if target < 0 {
		target = 0
	}
	if target > 100 {
		target = 100
	}
	return target, nil
}
