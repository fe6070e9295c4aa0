// Package cli wires configuration, secrets and the dispatcher behind the
// santa command.
package cli

import (
	"github.com/spf13/cobra"
)

// Options holds the command line flags.
type Options struct {
	Official   bool
	TestEmail  string
	ConfigPath string
	EnvFile    string
}

// NewRootCommand creates the santa command. Without flags it performs a
// dry-run that only writes the record file.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "santa",
		Short: "Draw secret santa pairings and mail every santa their recipient",
		Long: "Draws a single gift-giving cycle over the participants in the secrets file,\n" +
			"honouring the exclusions in the config file. By default the letters are only\n" +
			"written to the record file; pass --official to mail them.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Official, "official", false, "send the letters instead of only recording them")
	f.StringVar(&opts.TestEmail, "send-test-email", "", "send one test letter to `ADDRESS` to check the SMTP settings")
	f.StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .toml); defaults to $SANTA_CONFIG or config.yaml")
	f.StringVar(&opts.EnvFile, "env-file", "", "secrets file with SMTP settings and participants; defaults to .env.secret")
	cmd.MarkFlagsMutuallyExclusive("official", "send-test-email")

	return cmd
}
