package cli

import (
	"github.com/spf13/cobra"
)

func senderCmd(opts *options) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "sender --email <address>",
		Short: "Score the deliverability setup of a sender's domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			score, err := v.VerifySender(cmd.Context(), email)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), score)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "sender address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
