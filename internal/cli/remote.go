package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/ipc"
)

func remoteCmd() *cobra.Command {
	var pid int

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Control a running rondo instance over its socket",
	}
	cmd.PersistentFlags().IntVar(&pid, "pid", 0, "pid of the instance to control (default: the only one running)")

	cmd.AddCommand(
		remoteIndexLrcCmd(&pid),
		remoteMessageCmd(&pid),
		remoteTmuxHookCmd(&pid),
		remoteSetCmd(&pid),
		remoteKeysCmd(&pid),
		remoteSwitchTabCmd(&pid),
		remoteQueryCmd(&pid),
	)
	return cmd
}

// dialInstance connects to the instance selected by --pid, or to the
// only one running.
func dialInstance(pid int) (*ipc.Client, error) {
	if pid > 0 {
		return ipc.DialPid(pid)
	}
	socks, err := ipc.Discover()
	if err != nil {
		return nil, err
	}
	switch len(socks) {
	case 0:
		return nil, fmt.Errorf("no running instance found")
	case 1:
		return ipc.Dial(socks[0])
	default:
		return nil, fmt.Errorf("%d instances running, pick one with --pid", len(socks))
	}
}

// sendEnvelope delivers env and turns a refused reply into an error.
func sendEnvelope(pid int, env ipc.Envelope) error {
	client, err := dialInstance(pid)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Send(env)
	if err != nil {
		return err
	}
	if !reply.OK {
		return fmt.Errorf("instance: %s", reply.Error)
	}
	return nil
}

func remoteIndexLrcCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "index-lrc <path>",
		Short: "Reindex one .lrc file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return sendEnvelope(*pid, ipc.Envelope{Kind: ipc.KindIndexLrc, Path: path})
		},
	}
}

func remoteMessageCmd(pid *int) *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "message <text>",
		Short: "Show a message in the status bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEnvelope(*pid, ipc.Envelope{
				Kind:  ipc.KindStatusMessage,
				Text:  args[0],
				Level: level,
			})
		},
	}
	cmd.Flags().StringVar(&level, "level", "info", "message level: info, warn, error")
	return cmd
}

func remoteTmuxHookCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "tmux-hook <hook>",
		Short: "Run the named tmux hook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEnvelope(*pid, ipc.Envelope{Kind: ipc.KindTmuxHook, Hook: args[0]})
		},
	}
}

func remoteSetCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "set <option> <value>",
		Short: "Change a runtime option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEnvelope(*pid, ipc.Envelope{Kind: ipc.KindSet, Name: args[0], Value: args[1]})
		},
	}
}

func remoteKeysCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <sequence>",
		Short: "Inject a key sequence as if typed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEnvelope(*pid, ipc.Envelope{Kind: ipc.KindKeybind, Keys: args[0]})
		},
	}
}

func remoteSwitchTabCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "switch-tab <name>",
		Short: "Focus the named tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEnvelope(*pid, ipc.Envelope{Kind: ipc.KindSwitchTab, Name: args[0]})
		},
	}
}

func remoteQueryCmd(pid *int) *cobra.Command {
	return &cobra.Command{
		Use:   "query <target>...",
		Short: "Print instance state (status, song, queue, tab, version) as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := dialInstance(*pid)
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.Query(args)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
