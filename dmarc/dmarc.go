// Package dmarc checks whether a domain publishes a DMARC policy (RFC 7489)
// as a TXT record under "_dmarc.<domain>".
//
// By default only the queried domain is consulted. With Options.OrgFallback
// a subdomain without its own record falls back to the record of its
// organizational domain, determined using the Public Suffix List.
package dmarc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// DMARC lookup errors.
var (
	// ErrNoRecord indicates no DMARC DNS record was found.
	ErrNoRecord = errors.New("dmarc: no DMARC DNS record found")

	// ErrDNS indicates a DNS lookup error occurred.
	ErrDNS = errors.New("dmarc: DNS lookup error")
)

// Prefix marks a TXT record as a DMARC policy.
const Prefix = "v=DMARC1"

// Options configures a DMARC check.
type Options struct {
	// OrgFallback retries at the organizational domain when the queried
	// subdomain has no record.
	OrgFallback bool
}

// Record is the detail of a present DMARC check.
type Record struct {
	Record string `json:"record"`

	// Policy is the value of the "p" tag ("none", "quarantine", "reject").
	Policy string `json:"policy,omitempty"`

	// Domain is set when the record was found at the organizational domain
	// rather than the queried one.
	Domain string `json:"domain,omitempty"`
}

// Lookup returns the first TXT record at "_dmarc.<domain>" that starts
// with "v=DMARC1", and the domain it was found at.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string, opts Options) (txt, dmarcDomain string, err error) {
	txt, err = lookupRecord(ctx, resolver, domain)
	if !errors.Is(err, ErrNoRecord) || !opts.OrgFallback {
		return txt, domain, err
	}

	orgDomain := OrganizationalDomain(domain)
	if orgDomain == "" || orgDomain == strings.TrimSuffix(strings.ToLower(domain), ".") {
		return "", domain, err
	}

	txt, err = lookupRecord(ctx, resolver, orgDomain)
	return txt, orgDomain, err
}

// lookupRecord performs the actual DNS lookup for a DMARC record.
func lookupRecord(ctx context.Context, resolver dns.Resolver, domain string) (string, error) {
	texts, err := dns.Texts(ctx, resolver, "_dmarc."+domain)
	if err != nil {
		if dns.IsNotFound(err) {
			return "", ErrNoRecord
		}
		return "", fmt.Errorf("%w: %w", ErrDNS, err)
	}

	for _, txt := range texts {
		if strings.HasPrefix(txt, Prefix) {
			return txt, nil
		}
	}
	return "", ErrNoRecord
}

// Check looks up the DMARC record of domain and folds the result into an outcome.
func Check(ctx context.Context, resolver dns.Resolver, domain string, opts Options) dns.Outcome[Record] {
	txt, found, err := Lookup(ctx, resolver, domain, opts)
	if errors.Is(err, ErrNoRecord) {
		return dns.Absent[Record](dns.NoRecord, "No DMARC record found")
	}
	if err != nil {
		return dns.AbsentFromError[Record](err, "No DMARC record found", "Domain DNS not responding")
	}

	record := Record{Record: txt, Policy: policy(txt)}
	if found != domain {
		record.Domain = found
	}
	return dns.Present(record)
}

// policy returns the value of the "p" tag, lower-cased.
func policy(txt string) string {
	for _, tag := range strings.Split(txt, ";") {
		name, value, ok := strings.Cut(tag, "=")
		if ok && strings.EqualFold(strings.TrimSpace(name), "p") {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}
