package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/parser"
	"github.com/jsonnet-run/jsonnet/lang/resolver"
)

func parseOK(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, err := parser.Parse("test.jsonnet", []byte(src))
	require.NoError(t, err)
	return e
}

func TestResolveLocal(t *testing.T) {
	e := parseOK(t, `local x = 1, y = x + 1; y`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)

	local := e.(*ast.LocalExpr)
	body := local.Body.(*ast.Ident)
	require.NotNil(t, body.Binding)
	assert.Equal(t, ast.BindLocal, body.Binding.Kind)
	assert.Equal(t, 0, body.Binding.Depth)
	assert.Equal(t, 1, body.Binding.Slot)
}

func TestResolveUnknownVariable(t *testing.T) {
	e := parseOK(t, `x + 1`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown variable "x"`)
}

func TestResolveStd(t *testing.T) {
	e := parseOK(t, `std.length([1, 2, 3])`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveSelfOutsideObject(t *testing.T) {
	e := parseOK(t, `self`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "'self' used outside of an object")
}

func TestResolveSuperOutsideObject(t *testing.T) {
	e := parseOK(t, `local f(x) = x; f(super)`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "'super' used outside of an object")
}

func TestResolveSelfInsideObjectField(t *testing.T) {
	e := parseOK(t, `{ a: 1, b: self.a }`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveSelfCrossesFunctionBoundary(t *testing.T) {
	// self/super are part of the lexical environment, so they remain valid
	// inside a function nested in an object field.
	e := parseOK(t, `{ a: 1, b: (function() self.a)() }`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveObjectLocalVisibleToFields(t *testing.T) {
	e := parseOK(t, `{ local x = 5, a: x + 1 }`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveObjectLocalNotVisibleOutside(t *testing.T) {
	e := parseOK(t, `{ local x = 5, a: x }.a + x`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unknown variable "x"`)
}

func TestResolveArrayComp(t *testing.T) {
	e := parseOK(t, `[x + y for x in [1, 2] for y in [3, 4] if x != y]`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveObjectComp(t *testing.T) {
	e := parseOK(t, `{ [k]: v for k in ["a", "b"] for v in [1, 2] }`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveFunctionParamDefault(t *testing.T) {
	e := parseOK(t, `local f(x, y=x+1) = x + y; f(1)`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)
}

func TestResolveDuplicateParamName(t *testing.T) {
	e := parseOK(t, `function(x, y, x) x + y`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `duplicate parameter name "x"`)
}

func TestResolveDollarOutsideObject(t *testing.T) {
	e := parseOK(t, `$`)
	errs := resolver.Resolve("test.jsonnet", e)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "'$' used outside of an object")
}

func TestResolveShadowing(t *testing.T) {
	e := parseOK(t, `local x = 1; local x = 2; x`)
	errs := resolver.Resolve("test.jsonnet", e)
	assert.Empty(t, errs)

	outer := e.(*ast.LocalExpr)
	inner := outer.Body.(*ast.LocalExpr)
	body := inner.Body.(*ast.Ident)
	// The second `local x` opens its own nested scope frame, shadowing the
	// outer one; the reference resolves to the innermost frame.
	assert.Equal(t, 0, body.Binding.Depth)
}
