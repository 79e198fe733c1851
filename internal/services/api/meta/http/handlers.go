// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"jangat/internal/core/engine"
	"jangat/internal/core/pattern"
	"jangat/internal/core/segment"
	"jangat/internal/core/version"
	"jangat/internal/modkit/httpkit"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Engine      *engine.Engine
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/engine", h.engine)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"jangat-api"`
	Started string `json:"started"  example:"2026-10-01T08:00:00Z"`
	Now     string `json:"now"      example:"2026-10-01T08:05:00Z"`
}

// ReadyCheck describes a single check
type ReadyCheck struct {
	Name   string `json:"name"   example:"taxonomy"`
	Status string `json:"status" example:"ok"` // ok fail
	Error  string `json:"error,omitempty" example:"no subjects loaded"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T08:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"jangat-api"`
	Started string `json:"started" example:"2026-10-01T08:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// PatternCache reports the process wide compiled pattern cache
type PatternCache struct {
	Hits   int `json:"hits"   example:"24"`
	Misses int `json:"misses" example:"24"`
}

// EngineResponse reports the analysis defaults and loaded taxonomy
type EngineResponse struct {
	Policy      string            `json:"policy"       example:"share"`
	Dedup       string            `json:"dedup"        example:"position"`
	Language    string            `json:"language"     example:"fr"`
	MaxEvidence int               `json:"max_evidence" example:"2"`
	Workers     int               `json:"workers"      example:"0"`
	Subjects    int               `json:"subjects"     example:"24"`
	Taxonomy    string            `json:"taxonomy"     example:"9c1185a5c5e9fc54"`
	Languages   []string          `json:"languages"`
	Patterns    PatternCache      `json:"patterns"`
	Build       version.BuildInfo `json:"build"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe: taxonomy loaded and segmenter available
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	checks := []ReadyCheck{{Name: "taxonomy", Status: "ok"}, {Name: "segmenter", Status: "ok"}}
	e := h.deps.Engine
	switch {
	case e == nil:
		checks[0] = ReadyCheck{Name: "taxonomy", Status: "fail", Error: "engine not configured"}
		checks[1] = ReadyCheck{Name: "segmenter", Status: "fail", Error: "engine not configured"}
	case e.Taxonomy().Len() == 0:
		checks[0] = ReadyCheck{Name: "taxonomy", Status: "fail", Error: "no subjects loaded"}
	}
	if e != nil {
		if _, err := segment.New(e.Config().Language); err != nil {
			checks[1] = ReadyCheck{Name: "segmenter", Status: "fail", Error: err.Error()}
		}
	}

	overall := "ok"
	for _, c := range checks {
		if c.Status != "ok" {
			overall = "fail"
		}
	}
	return ReadyResponse{Status: overall, Checks: checks, Now: time.Now().UTC().Format(time.RFC3339)}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/engine Meta metaEngine
// @Summary Analysis defaults, taxonomy fingerprint and pattern cache
// @Tags Meta
// @Produce json
// @Success 200 type EngineResponse ok
// @Router /meta/engine [get]
func (h *handlers) engine(_ *http.Request) (any, error) {
	hits, misses := pattern.Stats()
	out := EngineResponse{
		Languages: append([]string{segment.Auto}, segment.Supported()...),
		Patterns:  PatternCache{Hits: hits, Misses: misses},
		Build:     version.Info(h.deps.ServiceName),
	}
	if e := h.deps.Engine; e != nil {
		cfg := e.Config()
		out.Policy = cfg.Policy.String()
		out.Dedup = cfg.Dedup.String()
		out.Language = cfg.Language
		out.MaxEvidence = cfg.MaxEvidence
		out.Workers = cfg.Workers
		out.Subjects = e.Taxonomy().Len()
		out.Taxonomy = e.Taxonomy().Fingerprint()
	}
	return out, nil
}
