// Package address implements the local checks on an email address: a
// syntax gate and static classification against disposable-provider and
// role-mailbox reference sets. Nothing in this package performs I/O.
package address

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// syntaxPattern is a heuristic gate, not an RFC 5322 parser. Length limits
// and internationalized addresses are not handled.
var syntaxPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateSyntax reports whether addr looks like local@domain.
func ValidateSyntax(addr string) bool {
	if addr == "" || containsNonASCII(addr) {
		return false
	}
	return syntaxPattern.MatchString(addr)
}

// Split splits addr on its last '@'. ok is false when there is no '@' or
// either side is empty.
func Split(addr string) (local, domain string, ok bool) {
	i := strings.LastIndexByte(addr, '@')
	if i <= 0 || i == len(addr)-1 {
		return "", "", false
	}
	return addr[:i], addr[i+1:], true
}

// Normalize trims surrounding whitespace and lower-cases addr.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func containsNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
