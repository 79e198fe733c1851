// @title         Jangat API
// @version       0.1.0
// @description   Thematic occurrence and proportion analysis of documents

package main

import (
	"context"
	"os/signal"
	"syscall"

	"jangat/internal/modkit"
	"jangat/internal/platform/config"
	"jangat/internal/platform/logger"
	phttp "jangat/internal/platform/net/http"

	"jangat/internal/services/api"
	analysismod "jangat/internal/services/api/analysis/module"

	"github.com/google/gops/agent"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "jangat-api"
	}
	logger.Init(opts)
	l := logger.Get()

	// gops agent for live diagnostics (stack dumps, gc, memstats) on CORE_API_GOPS=true
	if apiCfg.MayBool("GOPS", false) {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			l.Warn().Err(err).Msg("gops agent not started")
		}
		defer agent.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// engine (CORE_ENGINE_*) and acquirer (CORE_ACQUIRE_*), built once and shared with meta
	deps := modkit.Deps{Cfg: root, Log: l}
	ad, err := analysismod.FromConfig(deps, apiCfg.MayBool("REMOTE", true))
	if err != nil {
		l.Fatal().Err(err).Msg("analysis engine setup failed")
	}

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	o := api.FromConfig(root)
	o.Logger = l
	o.Analysis = ad
	api.Mount(srv.Router(), o)

	l.Info().
		Int("subjects", ad.Engine.Taxonomy().Len()).
		Str("taxonomy", ad.Engine.Taxonomy().Fingerprint()).
		Bool("auth", len(o.Tokens) > 0 || o.JWTSecret != "").
		Msg("jangat api ready")

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
