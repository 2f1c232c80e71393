package cli

import (
	"github.com/spf13/cobra"
)

func domainCmd(opts *options) *cobra.Command {
	var (
		selector    string
		orgFallback bool
	)

	cmd := &cobra.Command{
		Use:   "domain <domain>",
		Short: "Check MX, SPF, DKIM and DMARC records of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.prepare(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dkim-selector") {
				cfg.DKIM.Selector = selector
			}
			if cmd.Flags().Changed("dmarc-org-fallback") {
				cfg.DMARC.OrgFallback = orgFallback
			}

			v := opts.verifier(cfg, logger)
			return printJSON(cmd.OutOrStdout(), v.VerifyDomain(cmd.Context(), args[0]))
		},
	}

	cmd.Flags().StringVar(&selector, "dkim-selector", "", "DKIM selector to check (default from config, \"default\")")
	cmd.Flags().BoolVar(&orgFallback, "dmarc-org-fallback", false, "fall back to the organizational domain's DMARC record")
	return cmd
}
