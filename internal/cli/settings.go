package cli

import (
	"jangat/internal/adapters/acquire"
	"jangat/internal/core/engine"
	"jangat/internal/core/matcher"
	"jangat/internal/core/proportion"
	"jangat/internal/core/taxonomy"
	"jangat/internal/platform/config"
	"jangat/internal/platform/logger"
	str "jangat/internal/platform/strings"
)

// subjects returns the --subjects selection. Values from the environment arrive as one
// comma separated string
func (a *app) subjects() []string {
	sel := a.v.GetStringSlice("subjects")
	if len(sel) == 1 {
		return str.SplitList(sel[0])
	}
	return sel
}

// taxonomy loads --taxonomy, or the embedded default, restricted to --subjects
func (a *app) taxonomy() (*taxonomy.Taxonomy, error) {
	tax, err := engine.LoadTaxonomy(a.v.GetString("taxonomy"))
	if err != nil {
		return nil, err
	}
	return tax.Subset(a.subjects()...)
}

func (a *app) engineConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	var err error
	if cfg.Policy, err = proportion.ParsePolicy(a.v.GetString("policy")); err != nil {
		return cfg, err
	}
	if cfg.Dedup, err = matcher.ParseDedup(a.v.GetString("dedup")); err != nil {
		return cfg, err
	}
	cfg.Language = a.v.GetString("lang")
	cfg.MaxEvidence = a.v.GetInt("max-evidence")
	cfg.Workers = a.v.GetInt("workers")
	cfg.TaxonomyFile = a.v.GetString("taxonomy")
	return cfg, cfg.Validate()
}

func (a *app) engine() (*engine.Engine, error) {
	cfg, err := a.engineConfig()
	if err != nil {
		return nil, err
	}
	tax, err := a.taxonomy()
	if err != nil {
		return nil, err
	}
	return engine.New(tax, cfg, engine.WithLogger(logger.Named("engine")))
}

// acquirer reads CORE_ACQUIRE_* like the server does; a one shot process needs no cache
func (a *app) acquirer() *acquire.Acquirer {
	cfg := acquire.LoadConfig(config.New().Prefix("CORE_ACQUIRE_"))
	cfg.CacheTTL = 0
	if a.v.GetBool("no-robots") {
		cfg.Robots = false
	}
	if lang := a.v.GetString("lang"); lang != "" {
		cfg.Language = lang
	}
	return acquire.New(cfg, acquire.WithLogger(logger.Named("acquire")))
}
