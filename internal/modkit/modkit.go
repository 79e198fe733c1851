// Package modkit wires HTTP modules: shared deps, build options and the module contract
package modkit

import "jangat/internal/modkit/module"

// Module is the contract every API module satisfies
type Module = module.Module
