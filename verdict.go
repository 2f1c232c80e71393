package mailcheck

import (
	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dmarc"
	"github.com/synqronlabs/mailcheck/dns"
	"github.com/synqronlabs/mailcheck/spf"
)

// Status is the classification of a single address.
type Status string

const (
	// StatusInvalid is bad syntax or a domain without usable MX records.
	StatusInvalid Status = "invalid"

	// StatusDisposable is an address at a throwaway-mailbox provider.
	StatusDisposable Status = "disposable"

	// StatusRole is a deliverable address addressed to a function, not a person.
	StatusRole Status = "role"

	// StatusValid passed every check.
	StatusValid Status = "valid"
)

// Names of the entries in AddressVerdict.Checks.
const (
	CheckSyntax     = "syntax"
	CheckDisposable = "disposable"
	CheckRoleBased  = "role_based"
	CheckMX         = "mx"
)

// AddressVerdict is the result of VerifyEmail. Checks only holds the checks
// that ran before the verdict was reached.
type AddressVerdict struct {
	Email     string          `json:"email"`
	Status    Status          `json:"status"`
	Checks    map[string]bool `json:"checks"`
	Reason    string          `json:"reason,omitempty"`
	MXRecords []dns.MX        `json:"mx_records,omitempty"`
}

// DomainReport is a snapshot of the four record checks of a domain.
type DomainReport struct {
	Domain string                    `json:"domain"`
	MX     dns.Outcome[dns.MXSet]    `json:"mx"`
	SPF    dns.Outcome[spf.Record]   `json:"spf"`
	DKIM   dns.Outcome[dkim.Record]  `json:"dkim"`
	DMARC  dns.Outcome[dmarc.Record] `json:"dmarc"`
}

// PresentCount returns how many of the four checks found a record.
func (r DomainReport) PresentCount() int {
	n := 0
	for _, present := range []bool{r.MX.Present, r.SPF.Present, r.DKIM.Present, r.DMARC.Present} {
		if present {
			n++
		}
	}
	return n
}

// SenderScore is the result of VerifySender. The DomainReport fields are
// inlined when encoded.
type SenderScore struct {
	Sender string `json:"sender"`
	Score  int    `json:"deliverability_score"`
	Rating Rating `json:"rating"`
	DomainReport
}
