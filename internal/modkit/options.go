package modkit

import (
	"net/http"

	phttp "jangat/internal/platform/net/http"
)

// Option adjusts how a module is built
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName sets the module name used in logs and the port registry
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix sets the path prefix the module mounts under
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects collaborators owned by another module or by main
func WithPorts[T any](p T) Option { return func(c *buildCfg) { c.ports = p } }

// WithRegister adds extra routes after the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(c *buildCfg) { c.register = fn } }
