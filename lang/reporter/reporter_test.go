package reporter_test

import (
	"bytes"
	"testing"

	"github.com/mna/lox/lang/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrorFormat(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.New(&buf)
	rep.NoColor = true

	rep.Error(3, " at 'foo'", "Expect ';' after value.")
	require.True(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "[line 3] Error at 'foo': Expect ';' after value.\n", buf.String())
}

func TestRuntimeErrorFormat(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.New(&buf)
	rep.NoColor = true

	rep.RuntimeError(7, "Undefined variable 'x'.")
	require.True(t, rep.HadRuntimeError())
	require.False(t, rep.HadError())
	assert.Equal(t, "Undefined variable 'x'.\n[line 7]\n", buf.String())
}

func TestDiagnosticsSortedByLine(t *testing.T) {
	rep := reporter.New(nil)
	rep.Error(5, "", "b")
	rep.Error(1, "", "a")
	rep.RuntimeError(3, "c")

	diags := rep.Diagnostics()
	require.Len(t, diags, 3)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, 5, diags[2].Line)
}

func TestReset(t *testing.T) {
	rep := reporter.New(nil)
	rep.Error(1, "", "oops")
	require.True(t, rep.HadError())

	rep.Reset()
	assert.False(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())
	assert.Empty(t, rep.Diagnostics())
}
