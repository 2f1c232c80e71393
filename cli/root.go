// Package cli implements the mailcheck command line.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/synqronlabs/mailcheck"
	"github.com/synqronlabs/mailcheck/address"
	"github.com/synqronlabs/mailcheck/config"
	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dmarc"
	"github.com/synqronlabs/mailcheck/dns"
)

// Execute runs the command line and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(nil).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// options holds the persistent flags and what is built from them.
type options struct {
	configPath     string
	nameservers    []string
	timeout        time.Duration
	systemResolver bool
	debug          bool

	// resolver replaces the configured resolver when set.
	resolver dns.Resolver
}

func newRootCmd(resolver dns.Resolver) *cobra.Command {
	opts := &options{resolver: resolver}

	cmd := &cobra.Command{
		Use:          "mailcheck",
		Short:        "Validate email addresses and sending domains before outreach",
		SilenceUsage: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringSliceVar(&opts.nameservers, "nameserver", nil, "DNS server to query, host[:port] (repeatable)")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-query DNS timeout (default from config, 5s)")
	f.BoolVar(&opts.systemResolver, "system-resolver", false, "use the operating system resolver")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(
		verifyCmd(opts),
		bulkCmd(opts),
		domainCmd(opts),
		senderCmd(opts),
	)
	return cmd
}

// load reads the configuration file and applies flag overrides.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("nameserver") {
		cfg.Resolver.Nameservers = o.nameservers
	}
	if flags.Changed("timeout") {
		cfg.Resolver.Timeout = o.timeout
	}
	if flags.Changed("system-resolver") {
		cfg.Resolver.System = o.systemResolver
	}
	return cfg, cfg.Validate()
}

// logger writes text logs to the command's stderr.
func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// verifier builds a Verifier from cfg.
func (o *options) verifier(cfg config.Config, logger *slog.Logger) *mailcheck.Verifier {
	resolver := o.resolver
	if resolver == nil {
		resolver = cfg.NewResolver()
	}

	return mailcheck.New(mailcheck.Config{
		Resolver:   resolver,
		Classifier: address.NewClassifier(cfg.Classifier.DisposableDomains, cfg.Classifier.RolePrefixes),
		DKIM:       dkim.Options{Selector: cfg.DKIM.Selector},
		DMARC:      dmarc.Options{OrgFallback: cfg.DMARC.OrgFallback},
		Logger:     logger,
	})
}

// prepare loads the configuration and builds the logger.
func (o *options) prepare(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := o.load(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, o.logger(cmd), nil
}

// setup is prepare followed by building the verifier.
func (o *options) setup(cmd *cobra.Command) (*mailcheck.Verifier, error) {
	cfg, logger, err := o.prepare(cmd)
	if err != nil {
		return nil, err
	}
	return o.verifier(cfg, logger), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
