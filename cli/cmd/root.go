package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlprime/settings"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlprime",
		Short:        "sqlprime",
		SilenceUsage: true,
		Long: `CLI tool for priming databases with SQL scripts before migrations run. ` +
			`Activities are configured in sqlprime.yaml; see README.md.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			options, err = settings.LoadOptions(cmd.Flags())
			if err != nil {
				return err
			}
			if options.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}

	options settings.Options
	defines map[string]string
)

// Execute executes the root command.
func Execute() error {
	flags := rootCmd.PersistentFlags()
	flags.StringP("directory", "d", ".", "project directory; sqlprime.yaml and relative primer files are looked up here")
	flags.StringP("config", "c", "sqlprime.yaml", "name of the configuration file within the project directory")
	flags.BoolP("verbose", "v", false, "log at debug level")
	flags.StringToStringVarP(&defines, "define", "D", nil, "runtime parameter, e.g. -D sqlprime.main.url=capture:out.sql")
	return rootCmd.Execute()
}
