package address

import "testing"

func TestValidateSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "user@example.com", true},
		{"plus tag", "user+news@example.com", true},
		{"dots and percent", "first.last%x@mail.example.co.uk", true},
		{"uppercase", "User@Example.COM", true},
		{"empty", "", false},
		{"no at", "userexample.com", false},
		{"empty local", "@example.com", false},
		{"empty domain", "user@", false},
		{"two ats", "a@b@example.com", false},
		{"no dot in domain", "user@localhost", false},
		{"short tld", "user@example.c", false},
		{"numeric tld", "user@example.123", false},
		{"space", "us er@example.com", false},
		{"unicode local", "üser@example.com", false},
		{"idn domain", "user@exämple.com", false},
		{"trailing newline", "user@example.com\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSyntax(tt.input); got != tt.want {
				t.Errorf("ValidateSyntax(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input         string
		local, domain string
		ok            bool
	}{
		{"user@example.com", "user", "example.com", true},
		{"a@b@example.com", "a@b", "example.com", true},
		{"noat", "", "", false},
		{"@example.com", "", "", false},
		{"user@", "", "", false},
	}

	for _, tt := range tests {
		local, domain, ok := Split(tt.input)
		if local != tt.local || domain != tt.domain || ok != tt.ok {
			t.Errorf("Split(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.input, local, domain, ok, tt.local, tt.domain, tt.ok)
		}
	}
}

func TestIsDisposable(t *testing.T) {
	for _, d := range []string{"mailinator.com", "MAILINATOR.COM", "Yopmail.Com", "grr.la"} {
		if !IsDisposable(d) {
			t.Errorf("IsDisposable(%q) = false, want true", d)
		}
	}
	for _, d := range []string{"example.com", "mail.mailinator.com", ""} {
		if IsDisposable(d) {
			t.Errorf("IsDisposable(%q) = true, want false", d)
		}
	}
}

func TestIsRoleBased(t *testing.T) {
	tests := map[string]bool{
		"info":            true,
		"INFO":            true,
		"info+newsletter": true,
		"no-reply":        true,
		"postmaster+x+y":  true,
		"john":            false,
		"infos":           false,
		"john+info":       false,
		"":                false,
	}
	for local, want := range tests {
		if got := IsRoleBased(local); got != want {
			t.Errorf("IsRoleBased(%q) = %v, want %v", local, got, want)
		}
	}
}

func TestNewClassifierExtras(t *testing.T) {
	c := NewClassifier([]string{" Spam.Example "}, []string{"Careers"})

	if !c.IsDisposable("spam.example") {
		t.Error("extra disposable domain not matched")
	}
	if !c.IsDisposable("mailinator.com") {
		t.Error("built-in disposable domain lost")
	}
	if !c.IsRoleBased("careers+2024") {
		t.Error("extra role prefix not matched")
	}
	if IsDisposable("spam.example") {
		t.Error("extras leaked into the default classifier")
	}
}
