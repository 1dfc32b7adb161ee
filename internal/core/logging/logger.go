package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const componentKey = "cmp"

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str(componentKey, name).Logger()
}

// ReportComponent is Component bound to a single report, for values that
// live as long as that report is open.
func ReportComponent(name, report string) zerolog.Logger {
	return log.With().
		Str(componentKey, name).
		Str(string(reportKey), report).
		Logger()
}
