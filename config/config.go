// Package config loads mailcheck settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/synqronlabs/mailcheck/batch"
	"github.com/synqronlabs/mailcheck/dkim"
	"github.com/synqronlabs/mailcheck/dns"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the file format.
//
//	resolver:
//	  nameservers: ["8.8.8.8:53", "1.1.1.1"]
//	  timeout: 3s
//	  retries: 1
//	  backoff: 200ms
//	batch:
//	  workers: 16
//	dkim:
//	  selector: google
//	classifier:
//	  disposable_domains: [spam.example]
type Config struct {
	Resolver   Resolver   `yaml:"resolver"`
	Batch      Batch      `yaml:"batch"`
	DKIM       DKIM       `yaml:"dkim"`
	DMARC      DMARC      `yaml:"dmarc"`
	Classifier Classifier `yaml:"classifier"`
}

// Resolver configures DNS lookups.
type Resolver struct {
	Nameservers []string      `yaml:"nameservers"`
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	Backoff     time.Duration `yaml:"backoff"`
	DNSSEC      bool          `yaml:"dnssec"`

	// System uses the operating system resolver instead of querying
	// nameservers directly. Nameservers, Retries and DNSSEC are ignored.
	System bool `yaml:"system"`
}

// Batch configures the bulk runner.
type Batch struct {
	Workers int `yaml:"workers"`
}

// DKIM selects the key record checked for domains.
type DKIM struct {
	Selector string `yaml:"selector"`
}

// DMARC configures the DMARC lookup.
type DMARC struct {
	OrgFallback bool `yaml:"org_fallback"`
}

// Classifier extends the built-in disposable and role sets.
type Classifier struct {
	DisposableDomains []string `yaml:"disposable_domains"`
	RolePrefixes      []string `yaml:"role_prefixes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Resolver: Resolver{
			Timeout: 5 * time.Second,
			Retries: 2,
		},
		Batch: Batch{Workers: batch.DefaultWorkers},
		DKIM:  DKIM{Selector: dkim.DefaultSelector},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Resolver.Timeout <= 0 {
		return fmt.Errorf("%w: resolver.timeout must be positive", ErrInvalid)
	}
	if c.Resolver.Retries < 0 {
		return fmt.Errorf("%w: resolver.retries must not be negative", ErrInvalid)
	}
	if c.Resolver.Backoff < 0 {
		return fmt.Errorf("%w: resolver.backoff must not be negative", ErrInvalid)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("%w: batch.workers must be positive", ErrInvalid)
	}
	return nil
}

// NewResolver builds the resolver described by the configuration.
func (c Config) NewResolver() dns.Resolver {
	if c.Resolver.System {
		return dns.NewStdResolver(c.Resolver.Timeout)
	}

	retries := c.Resolver.Retries
	if retries == 0 {
		// dns.ResolverConfig treats zero as "use the default".
		retries = -1
	}
	return dns.NewResolver(dns.ResolverConfig{
		Nameservers: c.Resolver.Nameservers,
		DNSSEC:      c.Resolver.DNSSEC,
		Timeout:     c.Resolver.Timeout,
		Retries:     retries,
		Backoff:     c.Resolver.Backoff,
	})
}
