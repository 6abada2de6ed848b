package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

func addCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <uri>",
		Short: "Append a database song or directory to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Add(args[0])
			})
		},
	}
}

func clearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Clear()
			})
		},
	}
}

func seekCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seek <position|+N|-N>",
		Short: "Seek within the current song (seconds, m:ss, or a signed offset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, relative, err := mpd.ParseSeek(args[0])
			if err != nil {
				return err
			}
			return flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.SeekCur(d, relative)
			})
		},
	}
}

func addytCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "addyt <url>",
		Short: "Download a URL with the configured downloader and queue the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.DownloadDir()
			argv, err := cfg.DownloaderArgv(args[0], dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("download dir: %w", err)
			}

			log := flags.logger()
			log.Info().Strs("argv", argv).Msg("running downloader")

			run := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
			run.Dir = dir
			run.Stderr = os.Stderr
			out, err := run.Output()
			if err != nil {
				return fmt.Errorf("downloader: %w", err)
			}
			file := lastLine(string(out))
			if file == "" {
				return fmt.Errorf("downloader printed no file path")
			}

			err = flags.withClient(func(c *gompd.Client, _ *config.Config) error {
				return c.Add("file://" + file)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", file)
			return nil
		},
	}
}

// lastLine returns the final non-empty line of s, trimmed. Downloaders
// print progress first and the produced path last.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
