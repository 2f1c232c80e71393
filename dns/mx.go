package dns

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
)

// MX is a mail exchange host with its preference. Lower is preferred.
type MX struct {
	Priority uint16 `json:"priority"`
	Host     string `json:"host"`
}

// MXSet is the detail of a present MX outcome.
type MXSet struct {
	Records []MX `json:"records"`
}

// absentFields keeps "records" as an empty list when no MX was found.
func (MXSet) absentFields() map[string]json.RawMessage {
	return map[string]json.RawMessage{"records": json.RawMessage("[]")}
}

// ResolveMX looks up the MX records of domain. Hosts lose their trailing
// root dot and are sorted by priority; equal priorities keep answer order.
func ResolveMX(ctx context.Context, resolver Resolver, domain string) Outcome[MXSet] {
	result, err := resolver.LookupMX(ctx, ensureAbsolute(domain))
	if err != nil {
		return AbsentFromError[MXSet](err, "No MX records found", "Domain DNS not responding")
	}

	records := make([]MX, 0, len(result.Records))
	for _, mx := range result.Records {
		if mx == nil {
			continue
		}
		records = append(records, MX{
			Priority: mx.Pref,
			Host:     strings.TrimSuffix(mx.Host, "."),
		})
	}
	if len(records) == 0 {
		return Absent[MXSet](NoRecord, "No MX records found")
	}

	slices.SortStableFunc(records, func(a, b MX) int {
		return int(a.Priority) - int(b.Priority)
	})

	return Present(MXSet{Records: records})
}
