// Package cli builds the rondo command tree. The bare command starts
// the full-screen client; subcommands are one-shot remote controls
// that talk to MPD (or to a running rondo instance) and exit, with
// exit codes scripts can rely on.
package cli

import (
	"fmt"
	"os"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rondo-mpd/rondo/internal/app"
	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

// ExitError carries a specific process exit code out of a subcommand.
// Errors without one exit 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// rootFlags holds the persistent flags every subcommand shares.
type rootFlags struct {
	address  string
	password string
	config   string
	theme    string
	debug    bool
}

// New builds the command tree. version is stamped by the build.
func New(version string) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "rondo",
		Short:         "A terminal client for the Music Player Daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.config,
				Address:    flags.address,
				Password:   flags.password,
				Theme:      flags.theme,
				Debug:      flags.debug,
				Version:    version,
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.address, "address", "", "MPD address (host:port or unix socket path)")
	pf.StringVar(&flags.password, "password", "", "MPD password")
	pf.StringVar(&flags.config, "config", "", "config file to use instead of the default")
	pf.StringVar(&flags.theme, "theme", "", "theme name or .toml path, overriding the config")
	pf.BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(
		playCmd(flags),
		pauseCmd(flags),
		toggleCmd(flags),
		stopCmd(flags),
		nextCmd(flags),
		prevCmd(flags),
		volumeCmd(flags),
		statusCmd(flags),
		songCmd(flags),
		outputsCmd(flags),
		listMountsCmd(flags),
		addCmd(flags),
		clearCmd(flags),
		seekCmd(flags),
		addytCmd(flags),
		mountCmd(flags),
		unmountCmd(flags),
		albumartCmd(flags),
		remoteCmd(),
		versionCmd(version),
	)
	return root
}

// loadConfig resolves the effective config for a one-shot command:
// the config file with the root flags layered on top.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.address != "" {
		cfg.Address = f.address
	}
	if f.password != "" {
		cfg.Password = f.password
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	return cfg, nil
}

// withClient dials MPD for one command and closes the connection when
// fn returns.
func (f *rootFlags) withClient(fn func(c *gompd.Client, cfg *config.Config) error) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	network, addr := mpd.SplitAddr(cfg.Address)
	var client *gompd.Client
	if cfg.Password != "" {
		client, err = gompd.DialAuthenticated(network, addr, cfg.Password)
	} else {
		client, err = gompd.Dial(network, addr)
	}
	if err != nil {
		return fmt.Errorf("connect to MPD at %s: %w", cfg.Address, err)
	}
	defer client.Close()
	return fn(client, cfg)
}

// logger returns a stderr logger for subcommands that do real work.
func (f *rootFlags) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if f.debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
