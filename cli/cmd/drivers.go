package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	driversCmd = &cobra.Command{
		Use:   "drivers",
		Short: "Lists the drivers connection strings are resolved with, in the order they are tried",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range NewRegistry(logrus.StandardLogger()).Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(driversCmd)
}
