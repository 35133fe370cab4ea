package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vippsas/sqlprime/endpoint"
	"github.com/vippsas/sqlprime/settings"
)

var (
	activitiesCmd = &cobra.Command{
		Use:   "activities",
		Short: "Lists activities configured in sqlprime.yaml, with their effective connection strings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(options.Directory, options.Config)
			if err != nil {
				return err
			}
			activities, err := cfg.Select()
			if err != nil {
				return err
			}
			params, err := settings.NewParameters(defines)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, a := range activities {
				url := params.Effective(settings.DatabaseURL, a.Name, a.Connection.URL)
				fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, endpoint.Redact(url), strings.Join(a.Primer.Files, ","))
			}
			return w.Flush()
		},
	}
)

func init() {
	rootCmd.AddCommand(activitiesCmd)
}
