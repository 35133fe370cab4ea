package cmd

import (
	"errors"
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"
	"github.com/vippsas/sqlprime/go/mapfs"
	"github.com/vippsas/sqlprime/sqlparser"
)

var (
	splitRepr bool

	splitCmd = &cobra.Command{
		Use:   "split <file>",
		Short: "Dump the statements a primer file is split into to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <file>")
			}
			name := args[0]

			statements, err := sqlparser.SplitFile(mapfs.Resolve(options.Directory, name), name)
			if err != nil {
				return err
			}
			for _, s := range statements {
				fmt.Printf("-- %s\n", s.Pos)
				if splitRepr {
					fmt.Println(repr.String(s.Value))
				} else {
					fmt.Println(s.Value)
				}
				fmt.Println("===")
			}
			return nil
		},
	}
)

func init() {
	splitCmd.Flags().BoolVar(&splitRepr, "repr", false, "print statements as quoted Go strings")
	rootCmd.AddCommand(splitCmd)
}
