package modkit

import (
	"net/http"

	phttp "jangat/internal/platform/net/http"
	str "jangat/internal/platform/strings"
)

// Built is the resolved option set
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount routes a module under b.Prefix with its middleware, then runs own and the extra registrar
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	})
}

// PortsAs returns b.Ports as T when the caller injected one
func PortsAs[T any](b Built) (T, bool) {
	p, ok := b.Ports.(T)
	return p, ok
}
