package engine

import (
	"runtime"

	"jangat/internal/core/matcher"
	"jangat/internal/core/proportion"
	"jangat/internal/core/segment"
	"jangat/internal/core/taxonomy"
	"jangat/internal/platform/config"
	perr "jangat/internal/platform/errors"
)

// Config is everything an analysis depends on besides text and taxonomy
type Config struct {
	Policy      proportion.Policy
	Dedup       matcher.Dedup
	MaxEvidence int
	// Workers bounds concurrent documents in Compare; zero means GOMAXPROCS
	Workers int
	// Language is an ISO 639-1 code, a training name, or segment.Auto
	Language string
	// TaxonomyFile replaces the embedded taxonomy when set
	TaxonomyFile string
}

// DefaultConfig is share, by position, French, two evidence sentences per subject
func DefaultConfig() Config {
	return Config{
		Policy:      proportion.PolicyShare,
		Dedup:       matcher.DedupByPosition,
		MaxEvidence: 2,
		Language:    segment.DefaultLanguage,
	}
}

// LoadConfig reads POLICY, DEDUP, WORKERS, LANG, MAX_EVIDENCE and TAXONOMY_FILE under c,
// conventionally config.New().Prefix("CORE_ENGINE_")
func LoadConfig(c config.Conf) Config {
	d := DefaultConfig()
	cfg := Config{
		Workers:      c.MayInt("WORKERS", 0),
		MaxEvidence:  c.MayInt("MAX_EVIDENCE", d.MaxEvidence),
		Language:     c.MayString("LANG", d.Language),
		TaxonomyFile: c.MayString("TAXONOMY_FILE", ""),
	}
	// MayEnum panics on anything outside the list, so the parse errors below cannot happen
	cfg.Policy, _ = proportion.ParsePolicy(c.MayEnum("POLICY", d.Policy.String(), "share", "density"))
	cfg.Dedup, _ = matcher.ParseDedup(c.MayEnum("DEDUP", d.Dedup.String(), "position", "text"))
	return cfg
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Validate checks fields that have no safe fallback
func (c Config) Validate() error {
	if c.MaxEvidence < 0 {
		return perr.WithField(perr.InvalidArgf("max evidence must not be negative"), "max_evidence")
	}
	if c.Workers < 0 {
		return perr.WithField(perr.InvalidArgf("workers must not be negative"), "workers")
	}
	return nil
}

// LoadTaxonomy returns the taxonomy named by path, or the embedded one when path is blank
func LoadTaxonomy(path string) (*taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default()
	}
	return taxonomy.LoadFile(path)
}
