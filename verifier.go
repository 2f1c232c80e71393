package mailcheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/mailcheck/address"
	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dmarc"
	"github.com/synqronlabs/mailcheck/dns"
	"github.com/synqronlabs/mailcheck/spf"
)

// Config contains configuration for a Verifier.
type Config struct {
	// Resolver answers MX and TXT queries.
	// Default: dns.NewResolver with system nameservers.
	Resolver dns.Resolver

	// Classifier holds the disposable and role reference sets.
	// Default: address.Default().
	Classifier *address.Classifier

	// DKIM selects the key record checked by VerifyDomain.
	DKIM dkim.Options

	// DMARC configures the DMARC lookup of VerifyDomain.
	DMARC dmarc.Options

	// Logger receives debug traces and recovered panics.
	// Default: slog.Default().
	Logger *slog.Logger
}

// Verifier runs the verification pipeline. It holds no per-call state and
// is safe for concurrent use.
type Verifier struct {
	resolver   dns.Resolver
	classifier *address.Classifier
	dkim       dkim.Options
	dmarc      dmarc.Options
	logger     *slog.Logger
}

// New creates a Verifier from config, filling in defaults.
func New(config Config) *Verifier {
	if config.Resolver == nil {
		config.Resolver = dns.NewResolver(dns.ResolverConfig{})
	}
	if config.Classifier == nil {
		config.Classifier = address.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Verifier{
		resolver:   config.Resolver,
		classifier: config.Classifier,
		dkim:       config.DKIM,
		dmarc:      config.DMARC,
		logger:     config.Logger,
	}
}

// VerifyEmail verifies a single address. The address is trimmed and
// lower-cased first.
func (v *Verifier) VerifyEmail(ctx context.Context, addr string) AddressVerdict {
	email := address.Normalize(addr)
	verdict := AddressVerdict{
		Email:  email,
		Status: StatusInvalid,
		Checks: make(map[string]bool, 4),
	}

	if !address.ValidateSyntax(email) {
		verdict.Checks[CheckSyntax] = false
		verdict.Reason = "Invalid email syntax"
		return verdict
	}
	verdict.Checks[CheckSyntax] = true

	local, domain, _ := address.Split(email)

	if v.classifier.IsDisposable(domain) {
		verdict.Checks[CheckDisposable] = true
		verdict.Status = StatusDisposable
		verdict.Reason = "Disposable email provider"
		return verdict
	}
	verdict.Checks[CheckDisposable] = false

	// Empty status marks a verdict nothing has classified yet.
	var status Status
	role := v.classifier.IsRoleBased(local)
	verdict.Checks[CheckRoleBased] = role
	if role {
		status = StatusRole
		verdict.Reason = "Role-based address (lower reply rates)"
	}

	mx := guard(v, CheckMX, domain, func() dns.Outcome[dns.MXSet] {
		return dns.ResolveMX(ctx, v.resolver, domain)
	})
	verdict.Checks[CheckMX] = mx.Present
	if !mx.Present {
		verdict.Status = StatusInvalid
		verdict.Reason = mx.Message
		v.logger.Debug("mx check failed",
			slog.String("email", email),
			slog.String("reason", mx.Reason.String()),
			slog.String("error", mx.Message),
		)
		return verdict
	}
	verdict.MXRecords = mx.Detail.Records

	if status == "" {
		status = StatusValid
		verdict.Reason = "All checks passed"
	}
	verdict.Status = status
	return verdict
}

// VerifyDomain runs the MX, SPF, DKIM and DMARC checks of domain
// concurrently. Every check runs regardless of the others' outcomes.
func (v *Verifier) VerifyDomain(ctx context.Context, domain string) DomainReport {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	report := DomainReport{Domain: domain}

	var g errgroup.Group
	g.Go(func() error {
		report.MX = guard(v, "mx", domain, func() dns.Outcome[dns.MXSet] {
			return dns.ResolveMX(ctx, v.resolver, domain)
		})
		return nil
	})
	g.Go(func() error {
		report.SPF = guard(v, "spf", domain, func() dns.Outcome[spf.Record] {
			return spf.Check(ctx, v.resolver, domain)
		})
		return nil
	})
	g.Go(func() error {
		report.DKIM = guard(v, "dkim", domain, func() dns.Outcome[dkim.Record] {
			return dkim.Check(ctx, v.resolver, domain, v.dkim)
		})
		return nil
	})
	g.Go(func() error {
		report.DMARC = guard(v, "dmarc", domain, func() dns.Outcome[dmarc.Record] {
			return dmarc.Check(ctx, v.resolver, domain, v.dmarc)
		})
		return nil
	})
	_ = g.Wait()

	v.logger.Debug("domain verified",
		slog.String("domain", domain),
		slog.Bool("mx", report.MX.Present),
		slog.Bool("spf", report.SPF.Present),
		slog.Bool("dkim", report.DKIM.Present),
		slog.Bool("dmarc", report.DMARC.Present),
	)
	return report
}

// VerifySender scores the domain of a sending address.
func (v *Verifier) VerifySender(ctx context.Context, sender string) (SenderScore, error) {
	sender = strings.TrimSpace(sender)
	_, domain, ok := address.Split(sender)
	if !ok {
		return SenderScore{}, fmt.Errorf("%w: %q", ErrNoDomain, sender)
	}

	report := v.VerifyDomain(ctx, domain)
	score := Score(report)
	return SenderScore{
		Sender:       sender,
		Score:        score,
		Rating:       RateScore(score),
		DomainReport: report,
	}, nil
}

// guard runs a single check and turns a panic inside it into a Transient
// outcome.
func guard[T any](v *Verifier, check, domain string, fn func() dns.Outcome[T]) (o dns.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("panic recovered",
				slog.String("check", check),
				slog.String("domain", domain),
				slog.Any("panic", r),
			)
			o = dns.Absent[T](dns.Transient, fmt.Sprintf("internal error: %v", r))
		}
	}()
	return fn()
}
