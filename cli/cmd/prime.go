package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	primeCmd = &cobra.Command{
		Use:   "prime [activity...]",
		Short: "Executes the primer files of the activities configured in sqlprime.yaml",
		Long:  "Executes the primer files of the given activities, or of every configured activity when none are given. Activities run concurrently and independently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.StandardLogger()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			config, err := LoadConfig(options.Directory, options.Config)
			if err != nil {
				return err
			}
			activities, err := config.Select(args...)
			if err != nil {
				_ = cmd.Help()
				return err
			}

			primer, err := newPrimer(logger, activities)
			if err != nil {
				return err
			}
			if err := primer.PrimeAll(ctx, activities, options.Parallel); err != nil {
				return err
			}
			fmt.Printf("Primed %d activities\n", len(activities))
			return nil
		},
	}
)

func init() {
	primeCmd.Flags().Int("parallel", 0, "maximum number of activities primed at once; 0 means no limit")
	rootCmd.AddCommand(primeCmd)
}
