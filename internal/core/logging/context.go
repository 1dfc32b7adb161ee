package logging

import "context"

type contextKey string

const (
	reportKey contextKey = "report"
	factIDKey contextKey = "fact_id"
)

// contextFields are copied onto log events by ContextHook, in order.
var contextFields = []contextKey{reportKey, factIDKey}

// WithReport adds the path of the inspected report to the context.
func WithReport(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, reportKey, path)
}

// WithFactID adds the id of the item being acted on to the context.
func WithFactID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, factIDKey, id)
}

// GetReport retrieves the report path from the context.
// Returns empty string if not present.
func GetReport(ctx context.Context) string {
	if p, ok := ctx.Value(reportKey).(string); ok {
		return p
	}
	return ""
}

// GetFactID retrieves the item id from the context.
// Returns empty string if not present.
func GetFactID(ctx context.Context) string {
	if id, ok := ctx.Value(factIDKey).(string); ok {
		return id
	}
	return ""
}
