package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdrop/internal/config"
)

func newConfigCmd(flags *flagValues) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	var printDefaults bool
	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultConfig()
			if !printDefaults {
				res, err := flags.resolve(cmd.Flags())
				if err != nil {
					return err
				}
				cfg = res.Config
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	printCmd.Flags().BoolVar(&printDefaults, "defaults", false, "Print built-in defaults (no files)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := flags.load(cmd.Flags()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config: ok")
			return nil
		},
	}

	explainCmd := &cobra.Command{
		Use:       "explain KEY",
		Short:     "Show a value and where it was set",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "key: %s\n", args[0])
			fmt.Fprintf(w, "source: %s\n", src)
			fmt.Fprintf(w, "value: %s", out)
			return nil
		},
	}

	configCmd.AddCommand(printCmd, validateCmd, explainCmd)
	return configCmd
}
