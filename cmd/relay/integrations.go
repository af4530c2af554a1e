package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	relay "github.com/goliatone/go-relay"
	"github.com/spf13/cobra"
)

func newIntegrationsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "integrations",
		Short: "List the integration catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := relay.LoadCatalog()
			if err != nil {
				return err
			}
			definitions := loaded.Integrations.PublicIntegrations()
			if all {
				definitions = loaded.Integrations.All()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tREQUIRED SETTINGS\tEVENTS")
			for _, definition := range definitions {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					definition.Key,
					strings.Join(definition.RequiredSettings(), ","),
					strings.Join(definition.SupportedEventTypes, ","),
				)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include incomplete integrations")
	return cmd
}
