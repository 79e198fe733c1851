package module

import (
	"jangat/internal/adapters/acquire"
	"jangat/internal/core/engine"
	"jangat/internal/modkit"
	"jangat/internal/services/api/analysis/service"
)

// Deps are the collaborators the analysis module runs on. main builds them once so the
// meta module reports the same engine that serves requests
type Deps struct {
	Engine  *engine.Engine
	Fetcher service.Fetcher
}

// FromConfig builds the engine from CORE_ENGINE_* and, unless remote is false, the
// acquirer from CORE_ACQUIRE_*, sharing its cache through redis when REDIS_URL is set
func FromConfig(d modkit.Deps, remote bool) (Deps, error) {
	ecfg := engine.LoadConfig(d.Cfg.Prefix("CORE_ENGINE_"))
	tax, err := engine.LoadTaxonomy(ecfg.TaxonomyFile)
	if err != nil {
		return Deps{}, err
	}
	e, err := engine.New(tax, ecfg, engine.WithLogger(d.Logger("engine")))
	if err != nil {
		return Deps{}, err
	}
	out := Deps{Engine: e}
	if remote {
		acfg := acquire.LoadConfig(d.Cfg.Prefix("CORE_ACQUIRE_"))
		aopts := []acquire.Option{acquire.WithLogger(d.Logger("acquire"))}
		if acfg.RedisURL != "" {
			rc, err := acquire.NewRedis(acfg.RedisURL)
			if err != nil {
				return Deps{}, err
			}
			aopts = append(aopts, acquire.WithRedis(rc))
		}
		out.Fetcher = acquire.New(acfg, aopts...)
	}
	return out, nil
}
