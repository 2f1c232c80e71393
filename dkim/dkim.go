// Package dkim checks whether a domain publishes a DKIM public key record
// (RFC 6376) under a given selector.
//
// A TXT record at <selector>._domainkey.<domain> counts as a key record
// when it contains "v=DKIM1" or a "p=" tag. Records without a version tag
// are accepted.
package dkim

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// DKIM lookup errors.
var (
	// ErrNoRecord indicates no key record was found under the selector.
	ErrNoRecord = errors.New("dkim: no DKIM DNS record found")

	// ErrDNS indicates the TXT lookup itself failed.
	ErrDNS = errors.New("dkim: DNS lookup error")
)

// DefaultSelector is used when Options.Selector is empty.
const DefaultSelector = "default"

// maxDetail bounds how much of the key record is copied into results.
const maxDetail = 100

// Options configures a DKIM check.
type Options struct {
	Selector string
}

func (o Options) selector() string {
	if o.Selector == "" {
		return DefaultSelector
	}
	return o.Selector
}

// Record is the detail of a present DKIM check.
type Record struct {
	Selector string `json:"selector"`

	// Record is the key record cut to 100 characters plus "...".
	Record string `json:"record"`

	// Revoked is set when the record carries an empty "p=" tag.
	Revoked bool `json:"revoked,omitempty"`
}

// Name returns the DNS name holding the key for selector at domain.
func Name(selector, domain string) string {
	return selector + "._domainkey." + domain
}

// Lookup returns the first TXT record at <selector>._domainkey.<domain>
// that looks like a key record.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string, opts Options) (string, error) {
	name := Name(opts.selector(), domain)

	texts, err := dns.Texts(ctx, resolver, name)
	if err != nil {
		if dns.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrNoRecord, name)
		}
		return "", fmt.Errorf("%w: %w", ErrDNS, err)
	}

	for _, txt := range texts {
		if strings.Contains(txt, "v=DKIM1") || strings.Contains(txt, "p=") {
			return txt, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoRecord, name)
}

// Check looks up the DKIM key of domain and folds the result into an outcome.
func Check(ctx context.Context, resolver dns.Resolver, domain string, opts Options) dns.Outcome[Record] {
	selector := opts.selector()
	notFound := "No DKIM record at " + Name(selector, domain)

	txt, err := Lookup(ctx, resolver, domain, opts)
	if errors.Is(err, ErrNoRecord) {
		return dns.Absent[Record](dns.NoRecord, notFound)
	}
	if err != nil {
		return dns.AbsentFromError[Record](err, notFound, "Domain DNS not responding")
	}

	return dns.Present(Record{
		Selector: selector,
		Record:   truncate(txt, maxDetail) + "...",
		Revoked:  revoked(txt),
	})
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// revoked reports whether the record has a "p" tag with an empty value.
func revoked(txt string) bool {
	for _, tag := range strings.Split(txt, ";") {
		name, value, ok := strings.Cut(tag, "=")
		if !ok || strings.TrimSpace(name) != "p" {
			continue
		}
		return strings.TrimSpace(value) == ""
	}
	return false
}
