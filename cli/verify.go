package cli

import (
	"github.com/spf13/cobra"
)

func verifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <address>",
		Short: "Verify a single email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v.VerifyEmail(cmd.Context(), args[0]))
		},
	}
}
