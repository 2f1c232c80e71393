package dns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		isNotFound   bool
		isTimeout    bool
		isServFail   bool
		isTemp       bool
		isNoNameserv bool
	}{
		{
			name:       "not found error",
			err:        ErrDNSNotFound,
			isNotFound: true,
		},
		{
			name:      "timeout error",
			err:       ErrDNSTimeout,
			isTimeout: true,
			isTemp:    true,
		},
		{
			name:      "context deadline",
			err:       context.DeadlineExceeded,
			isTimeout: true,
			isTemp:    true,
		},
		{
			name:         "server failure",
			err:          ErrDNSServFail,
			isServFail:   true,
			isTemp:       true,
			isNoNameserv: true,
		},
		{
			name:         "refused",
			err:          ErrDNSRefused,
			isNoNameserv: true,
		},
		{
			name:         "no nameservers",
			err:          ErrNoNameservers,
			isNoNameserv: true,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", ErrDNSNotFound),
			isNotFound: true,
		},
		{
			name: "flattened not found",
			err:  errors.New("wrapper: " + ErrDNSNotFound.Error()),
		},
		{
			name: "nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.isNotFound)
			}
			if got := IsTimeout(tt.err); got != tt.isTimeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.isTimeout)
			}
			if got := IsServFail(tt.err); got != tt.isServFail {
				t.Errorf("IsServFail() = %v, want %v", got, tt.isServFail)
			}
			if got := IsTemporary(tt.err); got != tt.isTemp {
				t.Errorf("IsTemporary() = %v, want %v", got, tt.isTemp)
			}
			if got := IsNoNameserver(tt.err); got != tt.isNoNameserv {
				t.Errorf("IsNoNameserver() = %v, want %v", got, tt.isNoNameserv)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Reason
	}{
		{nil, ReasonNone},
		{ErrDNSNotFound, NoRecord},
		{ErrDNSServFail, NoNameserver},
		{ErrDNSRefused, NoNameserver},
		{ErrNoNameservers, NoNameserver},
		{ErrDNSTimeout, Transient},
		{context.Canceled, Transient},
		{errors.New("dns query failed: connection reset"), Transient},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestResolveMX(t *testing.T) {
	resolver := MockResolver{
		MX: map[string][]*net.MX{
			"example.com.": {
				{Host: "b.example.com.", Pref: 20},
				{Host: "a.example.com.", Pref: 10},
			},
			"ties.example.": {
				{Host: "first.", Pref: 5},
				{Host: "second.", Pref: 5},
				{Host: "zero.", Pref: 0},
			},
		},
		Fail:    []string{"mx servfail.example."},
		Timeout: []string{"mx slow.example."},
	}
	ctx := context.Background()

	t.Run("sorted by priority", func(t *testing.T) {
		o := ResolveMX(ctx, resolver, "example.com")
		if !o.Present {
			t.Fatalf("expected present outcome, got %+v", o)
		}
		want := []MX{{10, "a.example.com"}, {20, "b.example.com"}}
		if fmt.Sprint(o.Detail.Records) != fmt.Sprint(want) {
			t.Errorf("records = %v, want %v", o.Detail.Records, want)
		}
	})

	t.Run("stable ties", func(t *testing.T) {
		o := ResolveMX(ctx, resolver, "ties.example")
		want := []MX{{0, "zero"}, {5, "first"}, {5, "second"}}
		if fmt.Sprint(o.Detail.Records) != fmt.Sprint(want) {
			t.Errorf("records = %v, want %v", o.Detail.Records, want)
		}
	})

	t.Run("no record", func(t *testing.T) {
		o := ResolveMX(ctx, resolver, "missing.example")
		if o.Present || o.Reason != NoRecord {
			t.Fatalf("expected NoRecord, got %+v", o)
		}
		if o.Message != "No MX records found" {
			t.Errorf("message = %q", o.Message)
		}
	})

	t.Run("servfail", func(t *testing.T) {
		o := ResolveMX(ctx, resolver, "servfail.example")
		if o.Reason != NoNameserver {
			t.Fatalf("expected NoNameserver, got %v", o.Reason)
		}
		if o.Message != "Domain DNS not responding" {
			t.Errorf("message = %q", o.Message)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		o := ResolveMX(ctx, resolver, "slow.example")
		if o.Reason != Transient {
			t.Fatalf("expected Transient, got %v", o.Reason)
		}
		if o.Message != ErrDNSTimeout.Error() {
			t.Errorf("message = %q", o.Message)
		}
	})
}

func TestTextsStripsQuotes(t *testing.T) {
	resolver := MockResolver{
		TXT: map[string][]string{
			"example.com.": {`"v=spf1 -all"`, "plain"},
		},
	}

	texts, err := Texts(context.Background(), resolver, "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(texts) != 2 || texts[0] != "v=spf1 -all" || texts[1] != "plain" {
		t.Errorf("texts = %q", texts)
	}

	if _, err := Texts(context.Background(), resolver, "other.com"); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestOutcomeJSON(t *testing.T) {
	present := Present(MXSet{Records: []MX{{10, "mx.example.com"}}})
	b, err := json.Marshal(present)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"records":[{"priority":10,"host":"mx.example.com"}],"valid":true}` {
		t.Errorf("present JSON = %s", got)
	}

	absent := Absent[MXSet](NoRecord, "No MX records found")
	b, err = json.Marshal(absent)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"error":"No MX records found","reason":"no_record","records":[],"valid":false}` {
		t.Errorf("absent JSON = %s", got)
	}

	other := Absent[string](Transient, "dns: query timed out")
	b, err = json.Marshal(other)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"error":"dns: query timed out","reason":"transient","valid":false}` {
		t.Errorf("absent JSON without shape = %s", got)
	}
}

func TestMockResolverContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MockResolver{}.LookupTXT(ctx, "example.com")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestResolverInterface verifies that our types implement Resolver
func TestResolverInterface(t *testing.T) {
	var _ Resolver = (*DNSResolver)(nil)
	var _ Resolver = (*StdResolver)(nil)
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	if r.config.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", r.config.Timeout)
	}
	if r.config.Retries != 2 {
		t.Errorf("retries = %d, want 2", r.config.Retries)
	}
	if len(r.config.Nameservers) == 0 {
		t.Error("expected nameservers to be set")
	}

	r = NewResolver(ResolverConfig{Retries: -1, Nameservers: []string{"127.0.0.1"}})
	if r.config.Retries != 0 {
		t.Errorf("retries = %d, want 0", r.config.Retries)
	}
}

func TestWithPort(t *testing.T) {
	tests := map[string]string{
		"8.8.8.8":          "8.8.8.8:53",
		"8.8.8.8:5353":     "8.8.8.8:5353",
		"2001:db8::1":      "[2001:db8::1]:53",
		"[2001:db8::1]:53": "[2001:db8::1]:53",
	}
	for in, want := range tests {
		if got := withPort(in); got != want {
			t.Errorf("withPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDNSResolverUnreachable(t *testing.T) {
	// Nothing listens on the discard port; the query must fail as transient
	// or no-nameserver, never as not-found.
	r := NewResolver(ResolverConfig{
		Nameservers: []string{"127.0.0.1:9"},
		Timeout:     200 * time.Millisecond,
		Retries:     -1,
	})

	_, err := r.LookupMX(context.Background(), "example.com")
	if err == nil {
		t.Skip("something answered on 127.0.0.1:9")
	}
	if IsNotFound(err) {
		t.Errorf("unreachable server reported as not found: %v", err)
	}
	if Classify(err) == NoRecord {
		t.Errorf("Classify = NoRecord for %v", err)
	}
}

func TestConvertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", &net.DNSError{Err: "no such host", IsNotFound: true}, ErrDNSNotFound},
		{"timeout", &net.DNSError{Err: "i/o timeout", IsTimeout: true}, ErrDNSTimeout},
		{"temporary", &net.DNSError{Err: "server misbehaving", IsTemporary: true}, ErrDNSServFail},
		{"deadline", context.DeadlineExceeded, ErrDNSTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("convertError() = %v, want %v", got, tt.want)
			}
		})
	}

	other := convertError(errors.New("boom"))
	if !strings.Contains(other.Error(), "boom") {
		t.Errorf("unexpected wrap: %v", other)
	}
}

// Integration test - skip if no network
func TestDNSResolverIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	r := NewResolver(ResolverConfig{
		Nameservers: []string{"8.8.8.8:53"},
	})

	mxResult, err := r.LookupMX(context.Background(), "google.com")
	if err != nil {
		t.Skipf("MX lookup failed (no network?): %v", err)
	}
	if len(mxResult.Records) == 0 {
		t.Error("Expected MX records for google.com")
	}
}
