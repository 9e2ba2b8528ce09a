package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/sredstva/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// RootOptions holds global flags and the configuration they produce.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogPath    string

	cfg      config.Config
	closeLog func()
}

// Close releases resources opened by the root command, such as the log
// file. cobra skips post-run hooks when a command fails, so the caller
// closes after Execute returns.
func (o *RootOptions) Close() {
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

// NewRootCommand creates the root command for the sredstva CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sredstva",
		Short:         "IT asset registry with checkouts and repair tickets",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
			if err != nil {
				return err
			}
			if opts.LogPath != "" {
				cfg.LogPath = opts.LogPath
			}
			opts.cfg = cfg

			closeLog, err := setupLogger(cfg.LogPath)
			if err != nil {
				return err
			}
			opts.closeLog = closeLog
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file, ignored when missing")
	cmd.PersistentFlags().StringVarP(&opts.LogPath, "log", "l", "", "log file path (default: stdout/stderr only)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sredstva", version)
		},
	}
}
