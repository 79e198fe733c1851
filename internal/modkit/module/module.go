// Package module defines the module contract and cross module port lookup
package module

import phttp "jangat/internal/platform/net/http"

// Module mounts routes and exposes a port set for other modules
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
