package modkit

import (
	"jangat/internal/platform/config"
	"jangat/internal/platform/logger"
)

// Deps is what every module receives; module specific collaborators travel as options
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
}

// Logger returns Log, or a logger named after component when Log is unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}
