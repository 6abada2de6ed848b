package cli

import (
	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/config"
)

func mountCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mount <name> <storage>",
		Short: "Mount a storage backend under the music directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Command("mount %s %s", args[0], args[1]).OK()
			})
		},
	}
}

func unmountCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unmount <name>",
		Short: "Unmount a storage backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Command("unmount %s", args[0]).OK()
			})
		},
	}
}
