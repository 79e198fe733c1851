// Package module wires analysis into the API using modkit
package module

import (
	"context"

	modkit "jangat/internal/modkit"
	"jangat/internal/modkit/httpkit"
	str "jangat/internal/platform/strings"
	"jangat/internal/services/api/analysis/domain"
	ahttp "jangat/internal/services/api/analysis/http"
	asvc "jangat/internal/services/api/analysis/service"
)

// Module implements the analysis module
type Module struct {
	b     modkit.Built
	svc   asvc.Service
	ports Ports
}

// Ports is what the module offers other modules
type Ports struct {
	Analysis domain.ServicePort
}

// New constructs the analysis module. Collaborators are injected with
// modkit.WithPorts(module.Deps{...}); without them they are read from deps.Cfg and a
// configuration error panics, as the server cannot start without an engine
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analysis"),
		modkit.WithPrefix("/analysis"),
		modkit.WithMiddlewares(httpkit.JSONBody()),
	}, opts...)...)

	d, ok := modkit.PortsAs[Deps](b)
	if !ok || d.Engine == nil {
		var err error
		if d, err = FromConfig(deps, true); err != nil {
			panic("analysis module: " + err.Error())
		}
	}
	s := asvc.New(d.Engine, d.Fetcher)

	m := &Module{b: b, svc: s}
	m.ports = Ports{Analysis: adaptPort{svc: s}}
	return m
}

// MountRoutes mounts /subjects at the router root and the rest under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	ahttp.RegisterSubjects(r, m.svc)
	m.b.Mount(r, func(rr httpkit.Router) {
		ahttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptPort struct{ svc asvc.Service }

func (a adaptPort) Subjects(ctx context.Context) (domain.SubjectsResponse, error) {
	return a.svc.Subjects(ctx)
}

func (a adaptPort) AnalyzeText(ctx context.Context, in domain.TextInput) (domain.AnalysisResponse, error) {
	return a.svc.AnalyzeText(ctx, in)
}

func (a adaptPort) Compare(ctx context.Context, in domain.CompareInput) (domain.CompareResponse, error) {
	return a.svc.Compare(ctx, in)
}
