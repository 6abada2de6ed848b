package cli

import (
	"encoding/json"
	"io"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

// printJSON writes v as indented JSON, the shape scripts consume.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the player status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				attrs, err := c.Status()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mpd.ParseStatus(attrs))
			})
		},
	}
}

func songCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "song",
		Short: "Print the current song as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				attrs, err := c.CurrentSong()
				if err != nil {
					return err
				}
				song := mpd.ParseSong(attrs)
				if song.URI == "" {
					return printJSON(cmd.OutOrStdout(), nil)
				}
				return printJSON(cmd.OutOrStdout(), song)
			})
		},
	}
}

func outputsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "Print the audio outputs as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				list, err := c.ListOutputs()
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mpd.ParseOutputs(list))
			})
		},
	}
}

func listMountsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "listmounts",
		Short: "Print the mounted storage backends as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				list, err := c.Command("listmounts").AttrsList("mount")
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mpd.ParseMounts(list))
			})
		},
	}
}
