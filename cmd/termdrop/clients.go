package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/termdrop/internal/config"
)

func newClientsCmd() *cobra.Command {
	var detect bool
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List the known clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printClients(cmd.OutOrStdout(), detect)
			return nil
		},
	}
	cmd.Flags().BoolVar(&detect, "detect", false, "Only show clients installed on PATH")
	return cmd
}

func printClients(w io.Writer, detect bool) {
	installed := map[string]string{}
	for _, c := range config.DetectClients() {
		installed[c.Name] = c.Path
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tWM\tCATTR\tCOMMAND\tPATH")
	for _, c := range config.KnownClients() {
		path, ok := installed[c.Name]
		if detect && !ok {
			continue
		}
		if !ok {
			path = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Family, c.Criterion, c.Command, path)
	}
	tw.Flush()
}
