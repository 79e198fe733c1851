// Package api provides the HTTP API for the application
package api

import (
	"time"

	"jangat/internal/platform/config"
	"jangat/internal/platform/logger"
	phttp "jangat/internal/platform/net/http"
	str "jangat/internal/platform/strings"

	"jangat/internal/modkit"
	"jangat/internal/modkit/httpkit"
	"jangat/internal/modkit/module"
	"jangat/internal/modkit/swaggerkit"

	analysismod "jangat/internal/services/api/analysis/module"
	metamod "jangat/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	Analysis       analysismod.Deps
	EnableSwagger  bool
	EnableProfiler bool
	// Tokens maps bearer token to client name; with JWTSecret empty too the API is open
	Tokens    map[string]string
	JWTSecret string
	Origins   []string
	Timeout   time.Duration
}

// FromConfig reads CORE_API_* for everything except the analysis collaborators
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("CORE_API_")
	return Options{
		Config:         cfg,
		EnableSwagger:  ac.MayBool("SWAGGER", false),
		EnableProfiler: ac.MayBool("PROFILER", false),
		Tokens:         httpkit.ParseTokenList(str.SplitList(ac.MayString("TOKEN", ""))),
		JWTSecret:      ac.MayString("JWT_SECRET", ""),
		Origins:        ac.MayCSV("CORS_ORIGINS", nil),
		Timeout:        ac.MayDuration("TIMEOUT", 2*time.Minute),
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config, Log: opt.Logger}

	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{
		ServiceName: "jangat-api",
		Engine:      opt.Analysis.Engine,
	}))
	analysis := analysismod.New(deps, modkit.WithPorts(opt.Analysis))

	r.Use(httpkit.Heartbeat("/ping"))
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	tokens := httpkit.NewTokenPort(opt.Tokens, opt.JWTSecret)
	stack := httpkit.CommonStack(httpkit.StackOptions{Origins: opt.Origins, Timeout: opt.Timeout})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range []module.Module{meta, analysis} {
			module.Register(m.Name(), m.Ports())
		}

		// meta stays open for probes
		meta.MountRoutes(api)
		api.Group(func(g httpkit.Router) {
			if tokens != nil {
				g.Use(httpkit.Auth(tokens))
			}
			analysis.MountRoutes(g)
		})
	})
}
