package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"gsa/internal/gmp/command"
	"gsa/internal/gmp/transport"
)

const defaultURL = "http://localhost:9392/gmp"

type options struct {
	url      string
	user     string
	password string
	timeout  time.Duration
	insecure bool

	client *transport.Client
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the gsactl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "gsactl",
		Short:         "Command line client for the Greenbone Management Protocol",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.url == "" {
				opts.url = envOr("GSA_URL", defaultURL)
			}
			if opts.user == "" {
				opts.user = os.Getenv("GSA_USER")
			}
			if opts.password == "" {
				opts.password = os.Getenv("GSA_PASSWORD")
			}
			opts.client = transport.NewClient(opts.url, opts.timeout, opts.insecure)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.url, "url", "", "gsad GMP endpoint (default "+defaultURL+")")
	root.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "GMP user name")
	root.PersistentFlags().StringVarP(&opts.password, "password", "p", "", "GMP password")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "GMP request timeout")
	root.PersistentFlags().BoolVar(&opts.insecure, "insecure", false, "skip TLS certificate verification")

	root.AddCommand(filterCmd(), listCmd(opts), typesCmd(opts))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (o *options) registry() *command.Registry {
	return command.NewRegistry(o.client)
}
