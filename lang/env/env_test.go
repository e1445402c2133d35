package env_test

import (
	"testing"

	"github.com/mna/lox/lang/env"
	"github.com/mna/lox/lang/token"
	"github.com/mna/lox/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(lexeme string) token.Token {
	return token.Token{Type: token.IDENT, Lexeme: lexeme, Line: 1}
}

func TestDefineAndGet(t *testing.T) {
	e := env.New(nil)
	e.Define("x", types.Number(1))
	v, err := e.Get(name("x"))
	require.NoError(t, err)
	assert.Equal(t, types.Number(1), v)
}

func TestGetUndefinedFails(t *testing.T) {
	e := env.New(nil)
	_, err := e.Get(name("nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestGetUninitializedFails(t *testing.T) {
	e := env.New(nil)
	e.DefineUninitialized("x")
	_, err := e.Get(name("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestGetWalksEnclosingChain(t *testing.T) {
	outer := env.New(nil)
	outer.Define("x", types.Number(42))
	inner := env.New(outer)

	v, err := inner.Get(name("x"))
	require.NoError(t, err)
	assert.Equal(t, types.Number(42), v)
}

func TestAssignWalksEnclosingChainAndFailsIfUndefined(t *testing.T) {
	outer := env.New(nil)
	outer.Define("x", types.Number(1))
	inner := env.New(outer)

	require.NoError(t, inner.Assign(name("x"), types.Number(2)))
	v, err := outer.Get(name("x"))
	require.NoError(t, err)
	assert.Equal(t, types.Number(2), v)

	require.Error(t, inner.Assign(name("y"), types.Number(1)))
}

func TestGetAtAndAssignAt(t *testing.T) {
	root := env.New(nil)
	root.Define("x", types.Number(1))
	mid := env.New(root)
	leaf := env.New(mid)

	v, err := leaf.GetAt(2, name("x"))
	require.NoError(t, err)
	assert.Equal(t, types.Number(1), v)

	require.NoError(t, leaf.AssignAt(2, name("x"), types.Number(9)))
	v, err = root.Get(name("x"))
	require.NoError(t, err)
	assert.Equal(t, types.Number(9), v)
}

func TestGetAtPastRootPanics(t *testing.T) {
	root := env.New(nil)
	assert.Panics(t, func() {
		_, _ = root.GetAt(1, name("x"))
	})
}

func TestGetAtNameMissingReturnsFalse(t *testing.T) {
	root := env.New(nil)
	_, ok := root.GetAtName(0, "this")
	assert.False(t, ok)
}
