package logging

import (
	"github.com/rs/zerolog"
)

// ContextHook copies the report path and item id carried on an event's
// context onto the event.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	for _, key := range contextFields {
		if v, _ := ctx.Value(key).(string); v != "" {
			e.Str(string(key), v)
		}
	}
}
