package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/filter"
	"gsa/internal/gmp/model"
	"gsa/internal/gmp/transport"
)

var errNoUser = errors.New("user and password are required (--user/--password or GSA_USER/GSA_PASSWORD)")

func listCmd(opts *options) *cobra.Command {
	var term string

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "Print the id and name of the entities of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := opts.registry().Lookup(args[0])
			if err != nil {
				return err
			}
			ctx, logout, err := opts.login(cmd.Context())
			if err != nil {
				return err
			}
			defer logout()

			list, err := g.List(ctx, filter.Parse(term))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, e := range list.Entities {
				if ent, ok := e.(model.Entity); ok {
					fmt.Fprintf(w, "%s\t%s\n", ent.GetID(), ent.GetName())
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			c := list.Counts
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d-%d of %d (%d total)\n", c.First, c.Last, c.Filtered, c.All)
			return err
		},
	}
	cmd.Flags().StringVarP(&term, "filter", "f", "", "filter term")
	return cmd
}

func typesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Print the supported entity types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range opts.registry().Types() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// login opens a gsad session and returns a context carrying its
// credentials together with a func ending the session.
func (o *options) login(ctx context.Context) (context.Context, func(), error) {
	if o.user == "" || o.password == "" {
		return nil, nil, errNoUser
	}
	auth := command.NewAuthCommand(o.client)
	sess, err := auth.Login(ctx, o.user, o.password)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	ctx = transport.WithCredentials(ctx, sess.Credentials())
	return ctx, func() { _ = auth.Logout(ctx) }, nil
}
