package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// Resolver is the set of lookups the verification pipeline needs.
type Resolver interface {
	// LookupTXT retrieves TXT records for the given name. Multi-string
	// records are joined into a single value.
	LookupTXT(ctx context.Context, name string) (Result[string], error)

	// LookupMX retrieves MX records for the given name in answer order.
	LookupMX(ctx context.Context, name string) (Result[*net.MX], error)
}

// Result holds the records of a lookup.
type Result[T any] struct {
	Records []T

	// Authentic is true when the answer was DNSSEC-validated upstream.
	Authentic bool
}

// ResolverConfig contains configuration for the DNS resolver.
type ResolverConfig struct {
	// Nameservers is a list of DNS servers to query (e.g., "8.8.8.8:53").
	// If empty, system resolvers from /etc/resolv.conf are used,
	// falling back to public DNS (8.8.8.8, 1.1.1.1).
	Nameservers []string

	// DNSSEC sets the DO bit so the Authentic field is meaningful.
	DNSSEC bool

	// Timeout is the timeout for individual DNS queries. Default is 5 seconds.
	Timeout time.Duration

	// Retries is the number of extra rounds over the nameservers after a
	// transient failure. Default is 2. Negative disables retries.
	Retries int

	// Backoff is the pause before each retry round, multiplied by the round
	// number. Zero retries immediately.
	Backoff time.Duration
}

// DNSResolver implements Resolver using github.com/miekg/dns. Queries go
// over UDP with EDNS0; truncated answers are repeated over TCP.
type DNSResolver struct {
	config ResolverConfig
	client *mdns.Client
	tcp    *mdns.Client
}

// ednsSize is the UDP payload size advertised in the OPT record.
const ednsSize = 4096

// NewResolver creates a new DNS resolver.
func NewResolver(config ResolverConfig) *DNSResolver {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Retries == 0 {
		config.Retries = 2
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	if len(config.Nameservers) == 0 {
		config.Nameservers = getSystemNameservers()
	} else {
		servers := make([]string, 0, len(config.Nameservers))
		for _, s := range config.Nameservers {
			servers = append(servers, withPort(s))
		}
		config.Nameservers = servers
	}

	return &DNSResolver{
		config: config,
		client: &mdns.Client{
			Timeout: config.Timeout,
			UDPSize: ednsSize,
		},
		tcp: &mdns.Client{
			Net:     "tcp",
			Timeout: config.Timeout,
		},
	}
}

// getSystemNameservers tries to get system DNS servers from resolv.conf.
func getSystemNameservers() []string {
	config, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(config.Servers) == 0 {
		return []string{"8.8.8.8:53", "1.1.1.1:53"}
	}

	servers := make([]string, 0, len(config.Servers))
	for _, s := range config.Servers {
		servers = append(servers, withPort(s))
	}
	return servers
}

// withPort appends the default DNS port when addr has none.
func withPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(strings.Trim(addr, "[]"), "53")
}

// ensureAbsolute ensures the domain name ends with a dot (FQDN format).
func ensureAbsolute(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}

// query sends the question to each nameserver in turn. NXDOMAIN ends the
// query at once; timeouts, transport errors, SERVFAIL and REFUSED move on to
// the next server and, after a full round, to the next retry round.
func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, bool, error) {
	if len(r.config.Nameservers) == 0 {
		return nil, false, ErrNoNameservers
	}

	m := new(mdns.Msg)
	m.SetQuestion(ensureAbsolute(name), qtype)
	m.RecursionDesired = true
	m.SetEdns0(ednsSize, r.config.DNSSEC)

	var lastErr error

	for round := 0; round <= r.config.Retries; round++ {
		if round > 0 && r.config.Backoff > 0 {
			t := time.NewTimer(time.Duration(round) * r.config.Backoff)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, false, ctx.Err()
			case <-t.C:
			}
		}

		for _, server := range r.config.Nameservers {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}

			resp, err := r.exchange(ctx, m, server)
			if err != nil {
				lastErr = err
				continue
			}

			authentic := r.config.DNSSEC && resp.AuthenticatedData

			switch resp.Rcode {
			case mdns.RcodeSuccess:
				return resp, authentic, nil
			case mdns.RcodeNameError:
				return nil, authentic, ErrDNSNotFound
			case mdns.RcodeServerFailure:
				if r.config.DNSSEC {
					lastErr = ErrDNSBogus
				} else {
					lastErr = ErrDNSServFail
				}
			case mdns.RcodeRefused:
				lastErr = ErrDNSRefused
			default:
				lastErr = fmt.Errorf("dns: unexpected rcode %s", mdns.RcodeToString[resp.Rcode])
			}
		}
	}

	return nil, false, lastErr
}

// exchange sends m to server over UDP and repeats it over TCP when the
// answer comes back truncated. A truncated answer is never returned: its
// answer section is incomplete.
func (r *DNSResolver) exchange(ctx context.Context, m *mdns.Msg, server string) (*mdns.Msg, error) {
	qctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	resp, _, err := r.client.ExchangeContext(qctx, m, server)
	cancel()
	if err != nil {
		return nil, exchangeError(err)
	}
	if !resp.Truncated {
		return resp, nil
	}

	qctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
	resp, _, err = r.tcp.ExchangeContext(qctx, m, server)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: tcp retry after truncated answer: %w", ErrDNSTruncated, exchangeError(err))
	}
	if resp.Truncated {
		return nil, ErrDNSTruncated
	}
	return resp, nil
}

// exchangeError maps transport errors from the client to package errors.
func exchangeError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrDNSTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrDNSTimeout
	}
	return fmt.Errorf("dns query failed: %w", err)
}

// LookupTXT retrieves TXT records for the given domain.
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	resp, authentic, err := r.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return Result[string]{Authentic: authentic}, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			// TXT records may be split into multiple character strings, join them
			// per RFC 7208 Section 3.3
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}

	if len(records) == 0 {
		return Result[string]{Authentic: authentic}, ErrDNSNotFound
	}

	return Result[string]{Records: records, Authentic: authentic}, nil
}

// LookupMX retrieves MX records for the given domain.
func (r *DNSResolver) LookupMX(ctx context.Context, name string) (Result[*net.MX], error) {
	resp, authentic, err := r.query(ctx, name, mdns.TypeMX)
	if err != nil {
		return Result[*net.MX]{Authentic: authentic}, err
	}

	var records []*net.MX
	for _, rr := range resp.Answer {
		if mx, ok := rr.(*mdns.MX); ok {
			records = append(records, &net.MX{
				Host: mx.Mx,
				Pref: mx.Preference,
			})
		}
	}

	if len(records) == 0 {
		return Result[*net.MX]{Authentic: authentic}, ErrDNSNotFound
	}

	return Result[*net.MX]{Records: records, Authentic: authentic}, nil
}

// Config returns the resolver's current configuration.
func (r *DNSResolver) Config() ResolverConfig {
	return r.config
}
