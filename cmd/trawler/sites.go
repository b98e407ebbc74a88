package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/engine"
)

func init() {
	rootCmd.AddCommand(sitesCmd)
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Lists the searchable sites and scrape methods.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "sites:")
		for _, k := range browser.Kinds() {
			fmt.Fprintf(out, "  %s\n", k)
		}
		fmt.Fprintln(out, "methods:")
		for _, m := range engine.Methods() {
			suffix := ""
			if m == engine.DefaultMethod {
				suffix = " (default)"
			}
			fmt.Fprintf(out, "  %s%s\n", m, suffix)
		}
	},
}
