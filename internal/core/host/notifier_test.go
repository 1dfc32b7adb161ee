package host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)

	require.NoError(t, s.SelectionChanged("f1"))
	require.NoError(t, s.Export([]byte(`[{"i":"f1"}]`)))
	require.NoError(t, s.SelectionChanged(""))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"task":"SELECTION_CHANGED","factId":"f1"}`, lines[0])
	assert.Equal(t, `[{"i":"f1"}]`, lines[1])
	assert.JSONEq(t, `{"task":"SELECTION_CHANGED"}`, lines[2])
}

func TestBuffer(t *testing.T) {
	var b Buffer
	payload := []byte(`[]`)

	require.NoError(t, b.Export(payload))
	payload[0] = 'x'
	require.NoError(t, b.SelectionChanged("ignored"))

	drained := b.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, `[]`, string(drained[0]))
	assert.Empty(t, b.Drain())
}
