// Package main implements termdrop, a dropdown window manager for i3 and
// Sway. It toggles one floating window from a "nop <name>" keybinding and
// keeps it aligned to the focused output.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/1broseidon/termdrop/internal/config"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := fang.Execute(ctx, newRootCmd(),
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s", version, commit)),
	)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &flagValues{}

	rootCmd := &cobra.Command{
		Use:   "termdrop [flags] [-- CLIENT_ARGS...]",
		Short: "Dropdown window handler for i3 and Sway",
		Long: `termdrop manages a single floating "dropdown" window under i3 or Sway.

Bind a key to "nop NAME" in the compositor config; termdrop toggles the
window between the scratchpad and the focused workspace, spawning the
client when none exists. Arguments following '--' are forwarded to the
client when spawning.`,
		Example: `  # i3/Sway config
  exec_always termdrop -n dropdown -p CB -s 1,0.4 --animate
  bindsym $mod+grave nop dropdown

  # Custom client matched by app_id, with extra client arguments
  termdrop -c 'foot --app-id {}' -t app_id -- -e htop`,
		Version:      version,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.listClients {
				printClients(cmd.OutOrStdout(), false)
				return nil
			}
			clientArgs, err := splitClientArgs(cmd, args)
			if err != nil {
				return err
			}
			res, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), res, clientArgs)
		},
	}
	flags.register(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "",
		fmt.Sprintf("Config file path (default: %s)", config.DefaultConfigPath()))

	rootCmd.AddCommand(newClientsCmd(), newConfigCmd(flags))
	return rootCmd
}

// splitClientArgs returns the arguments after "--". Positional arguments
// before it are rejected.
func splitClientArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("unexpected arguments %q; forward client arguments after '--'", args)
		}
		return nil, nil
	}
	if dash > 0 {
		return nil, fmt.Errorf("unexpected arguments %q before '--'", args[:dash])
	}
	return args[dash:], nil
}
