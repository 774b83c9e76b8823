package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gsa/internal/gmp/filter"
)

func filterCmd() *cobra.Command {
	var next, previous, first, all bool
	var last int

	cmd := &cobra.Command{
		Use:   "filter [term...]",
		Short: "Normalize a filter term",
		Long:  "Parse a filter term and print its normalized serialization, optionally moved to another page.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if countTrue(next, previous, first, all, last > 0) > 1 {
				return errors.New("--next, --previous, --first, --last and --all are exclusive")
			}
			f := filter.Parse(strings.Join(args, " "))
			switch {
			case next:
				f = f.Next()
			case previous:
				f = f.Previous()
			case first:
				f = f.FirstPage()
			case all:
				f = f.All()
			case last > 0:
				f = f.LastPage(last)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), f.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&next, "next", false, "move to the following page")
	cmd.Flags().BoolVar(&previous, "previous", false, "move to the preceding page")
	cmd.Flags().BoolVar(&first, "first", false, "move to the first page")
	cmd.Flags().BoolVar(&all, "all", false, "request all rows in one page")
	cmd.Flags().IntVar(&last, "last", 0, "move to the last page of `N` filtered rows")
	return cmd
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
