package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/ixv/pkg/tuitest"
)

func TestPrinter_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := New(&out, &errOut)

	p.Successf("saved %d", 2)
	p.Infof("note")
	p.Warnf("careful")
	p.Errorf("broken")
	p.Printf("plain %s", "line")

	stdout := tuitest.StripANSI(out.String())
	stderr := tuitest.StripANSI(errOut.String())

	assert.Contains(t, stdout, "saved 2")
	assert.Contains(t, stdout, "note")
	assert.Contains(t, stdout, "plain line\n")
	assert.NotContains(t, stdout, "careful")

	assert.Contains(t, stderr, "careful")
	assert.Contains(t, stderr, "broken")
}

func TestCtx(t *testing.T) {
	var out bytes.Buffer
	p := New(&out, &out)

	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, Ctx(ctx))
	assert.NotNil(t, Ctx(context.Background()))
}
