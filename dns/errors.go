package dns

import (
	"context"
	"errors"
)

// DNS lookup errors shared by all resolver implementations.
var (
	// ErrDNSNotFound indicates NXDOMAIN or an answer without records of the
	// requested type. It is a definitive negative and is never retried.
	ErrDNSNotFound = errors.New("dns: no such record")

	// ErrDNSTimeout indicates the query did not complete within the timeout.
	ErrDNSTimeout = errors.New("dns: query timed out")

	// ErrDNSServFail indicates the nameserver answered SERVFAIL.
	ErrDNSServFail = errors.New("dns: server failure")

	// ErrDNSRefused indicates the nameserver refused the query.
	ErrDNSRefused = errors.New("dns: query refused")

	// ErrDNSBogus indicates DNSSEC validation failed upstream.
	ErrDNSBogus = errors.New("dns: DNSSEC validation failed")

	// ErrDNSTruncated indicates the answer did not fit in UDP and could not
	// be fetched over TCP.
	ErrDNSTruncated = errors.New("dns: truncated answer")

	// ErrNoNameservers indicates the resolver has no nameserver to ask.
	ErrNoNameservers = errors.New("dns: no nameservers configured")
)

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether err is a query or context timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsServFail reports whether err is a SERVFAIL answer.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether a later attempt might succeed.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err)
}

// IsNoNameserver reports whether no nameserver produced a usable answer.
// SERVFAIL and REFUSED from every configured server fall in this class.
func IsNoNameserver(err error) bool {
	return errors.Is(err, ErrNoNameservers) ||
		errors.Is(err, ErrDNSServFail) ||
		errors.Is(err, ErrDNSRefused) ||
		errors.Is(err, ErrDNSBogus)
}
