// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"jangat/internal/core/engine"
	modkit "jangat/internal/modkit"
	"jangat/internal/modkit/httpkit"
	str "jangat/internal/platform/strings"

	metahttp "jangat/internal/services/api/meta/http"
)

// Ports are the collaborators meta reports on
type Ports struct {
	ServiceName string
	Engine      *engine.Engine
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	startedAt time.Time
	ports     Ports
}

// New constructs a meta module. Inject Ports with modkit.WithPorts to report on the
// engine serving requests
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, _ := modkit.PortsAs[Ports](b)
	if p.ServiceName == "" {
		p.ServiceName = "jangat-api"
	}
	return &Module{b: b, startedAt: time.Now(), ports: p}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.ports.ServiceName,
			StartedAt:   m.startedAt,
			Engine:      m.ports.Engine,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
