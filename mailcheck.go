// Package mailcheck validates email addresses and sending domains before outreach.
//
// # Addresses
//
// VerifyEmail runs the per-address pipeline: a syntax gate, disposable and
// role classification against static reference sets, then an MX lookup.
// Local checks run before the network ones. Addresses rejected locally
// never cost a DNS query.
//
//	v := mailcheck.New(mailcheck.Config{
//	    Resolver: dns.NewResolver(dns.ResolverConfig{Timeout: 3 * time.Second}),
//	})
//	verdict := v.VerifyEmail(ctx, "jane@example.com")
//	fmt.Println(verdict.Status) // valid, role, disposable or invalid
//
// # Domains and senders
//
// VerifyDomain collects MX, SPF, DKIM and DMARC outcomes for a domain without
// short-circuiting. VerifySender scores the domain of a sending address:
// each present record is worth 25 points.
//
//	score, err := v.VerifySender(ctx, "news@example.com")
//	fmt.Println(score.Score, score.Rating) // 75 excellent
//
// # Failures
//
// A missing record is data, not an error. Timeouts and transport failures
// become Transient outcomes of the check that hit them; nothing raised inside
// a single check escapes the Verifier.
package mailcheck

import "errors"

// ErrNoDomain is returned by VerifySender when the address has no domain part.
var ErrNoDomain = errors.New("mailcheck: sender address has no domain")
