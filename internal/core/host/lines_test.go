package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessages(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMsgs []string
		wantRest string
	}{
		{
			name:     "complete lines",
			in:       "{\"task\":\"SHOW_FACT\",\"factId\":\"f1\"}\n{\"task\":\"X\"}\n",
			wantMsgs: []string{`{"task":"SHOW_FACT","factId":"f1"}`, `{"task":"X"}`},
		},
		{
			name:     "blank lines skipped",
			in:       "a\n\n  \r\nb\n",
			wantMsgs: []string{"a", "b"},
		},
		{
			name:     "trailing partial kept",
			in:       "a\n{\"task\":",
			wantMsgs: []string{"a"},
			wantRest: `{"task":`,
		},
		{
			name:     "no newline",
			in:       "  b",
			wantRest: "  b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, rest := splitMessages([]byte(tt.in))

			got := make([]string, 0, len(msgs))
			for _, m := range msgs {
				got = append(got, string(m))
			}
			if tt.wantMsgs == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.wantMsgs, got)
			}
			assert.Equal(t, tt.wantRest, string(rest))
		})
	}
}

func TestSplitMessages_CopiesLines(t *testing.T) {
	buf := []byte("abc\n")
	msgs, _ := splitMessages(buf)
	buf[0] = 'x'

	assert.Equal(t, "abc", string(msgs[0]))
}
