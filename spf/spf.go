// Package spf checks whether a domain publishes a Sender Policy Framework
// record (RFC 7208). It only locates the record; evaluating the policy
// against a sending IP is out of scope.
package spf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// SPF lookup errors.
var (
	// ErrNoRecord indicates no TXT record at the domain starts with "v=spf1".
	ErrNoRecord = errors.New("spf: no SPF record found")

	// ErrDNS indicates the TXT lookup itself failed.
	ErrDNS = errors.New("spf: DNS lookup error")
)

// Prefix marks a TXT record as an SPF policy.
const Prefix = "v=spf1"

// Record is the detail of a present SPF check.
type Record struct {
	Record string `json:"record"`

	// All is the qualified "all" mechanism ("-all", "~all", "?all", "+all"),
	// empty when the record has none.
	All string `json:"all,omitempty"`
}

// Lookup returns the first TXT record at domain that starts with "v=spf1".
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (string, error) {
	texts, err := dns.Texts(ctx, resolver, domain)
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

// Check looks up the SPF record of domain and folds the result into an outcome.
func Check(ctx context.Context, resolver dns.Resolver, domain string) dns.Outcome[Record] {
	txt, err := Lookup(ctx, resolver, domain)
	if errors.Is(err, ErrNoRecord) {
		return dns.Absent[Record](dns.NoRecord, "No SPF record found")
	}
	if err != nil {
		return dns.AbsentFromError[Record](err, "No SPF record found", "Domain DNS not responding")
	}
	return dns.Present(Record{Record: txt, All: allQualifier(txt)})
}

// allQualifier returns the last "all" mechanism of record with its
// qualifier made explicit.
func allQualifier(record string) string {
	var all string
	for _, term := range strings.Fields(record) {
		term = strings.ToLower(term)
		switch {
		case term == "all":
			all = "+all"
		case len(term) == 4 && term[1:] == "all" && strings.ContainsRune("+-~?", rune(term[0])):
			all = term
		}
	}
	return all
}
