package address

import "strings"

// disposableDomains are providers of short-lived throwaway mailboxes.
var disposableDomains = []string{
	"mailinator.com", "guerrillamail.com", "tempmail.com", "throwaway.email",
	"yopmail.com", "sharklasers.com", "guerrillamailblock.com", "grr.la",
	"dispostable.com", "maildrop.cc", "10minutemail.com", "trashmail.com",
	"temp-mail.org", "fakeinbox.com", "getnada.com", "mohmal.com",
	"burnermail.io", "tempail.com", "emailondeck.com", "mintemail.com",
}

// rolePrefixes are local parts addressed to a function rather than a person.
var rolePrefixes = []string{
	"info", "admin", "support", "sales", "contact", "help", "office",
	"billing", "accounts", "hr", "marketing", "press", "media",
	"webmaster", "postmaster", "abuse", "noreply", "no-reply",
}

// Classifier tests domains and local parts against immutable reference sets.
// A Classifier is safe for concurrent use.
type Classifier struct {
	disposable map[string]struct{}
	roles      map[string]struct{}
}

var defaultClassifier = NewClassifier(nil, nil)

// Default returns the classifier built from the built-in reference sets.
func Default() *Classifier {
	return defaultClassifier
}

// NewClassifier returns a classifier holding the built-in sets plus the
// given extra entries. Entries are matched case-insensitively.
func NewClassifier(extraDisposable, extraRoles []string) *Classifier {
	return &Classifier{
		disposable: newSet(disposableDomains, extraDisposable),
		roles:      newSet(rolePrefixes, extraRoles),
	}
}

func newSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				set[v] = struct{}{}
			}
		}
	}
	return set
}

// IsDisposable reports whether domain is a known disposable provider.
func (c *Classifier) IsDisposable(domain string) bool {
	_, ok := c.disposable[strings.ToLower(domain)]
	return ok
}

// IsRoleBased reports whether local names a role mailbox. Any "+tag"
// suffix is ignored.
func (c *Classifier) IsRoleBased(local string) bool {
	local = strings.ToLower(local)
	if i := strings.IndexByte(local, '+'); i >= 0 {
		local = local[:i]
	}
	_, ok := c.roles[local]
	return ok
}

// IsDisposable reports whether domain is in the built-in disposable set.
func IsDisposable(domain string) bool {
	return defaultClassifier.IsDisposable(domain)
}

// IsRoleBased reports whether local is in the built-in role set.
func IsRoleBased(local string) bool {
	return defaultClassifier.IsRoleBased(local)
}
