package host

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/ixv/internal/core/report"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Message
		wantErr error
	}{
		{name: "show fact", raw: `{"task":"SHOW_FACT","factId":"f1"}`, want: Message{Task: TaskShowFact, FactID: "f1"}},
		{name: "not json", raw: `SHOW_FACT f1`, wantErr: ErrMalformed},
		{name: "not an object", raw: `["SHOW_FACT"]`, wantErr: ErrMalformed},
		{name: "missing task", raw: `{"factId":"f1"}`, wantErr: ErrMalformed},
		{name: "missing fact id", raw: `{"task":"SHOW_FACT"}`, wantErr: ErrMalformed},
		{name: "unknown task", raw: `{"task":"HIDE_FACT","factId":"f1"}`, wantErr: ErrUnknownTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMessage([]byte(tt.raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeExport(t *testing.T) {
	facts := []*report.Fact{
		{ID: "f2", Value: "1500", Context: report.Context{ContextID: "c2", EntityID: "e1", PeriodID: "p2"}},
		{ID: "f3", Value: "ACME", Context: report.Context{ContextID: "c3", EntityID: "e1", PeriodID: "p3"}},
	}

	payload, err := EncodeExport(facts)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"i":"f2","d":"","v":"1500","c":"c2","e":"e1","p":"p2"},
		{"i":"f3","d":"","v":"ACME","c":"c3","e":"e1","p":"p3"}
	]`, string(payload))

	var records []ExportRecord
	require.NoError(t, json.Unmarshal(payload, &records))
	assert.Equal(t, "f2", records[0].ID)
}
