package eval

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bakeplan/internal/funcs"
	"github.com/vk/bakeplan/internal/vars"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), "parse %q: %s", src, diags.Error())
	return expr
}

// newScope builds a Context with a couple of variables and user functions.
func newScope(t *testing.T) *Context {
	t.Helper()

	store := vars.New()
	require.NoError(t, store.Declare("GIT_REV", "unknown"))
	require.NoError(t, store.Override("GIT_REV", "abc123"))
	require.NoError(t, store.Declare("REGISTRY", "registry"))
	require.NoError(t, store.Declare("target", "outer"))

	registry := funcs.New()
	require.NoError(t, registry.Define("generate_tags", []string{"target"},
		parseExpr(t, `["${REGISTRY}/${target}:dev_${GIT_REV}"]`)))
	require.NoError(t, registry.Define("one_tag", []string{"name"},
		parseExpr(t, `"${REGISTRY}/${name}"`)))
	require.NoError(t, registry.Define("broken", []string{"name"},
		parseExpr(t, `"${REGISTRY}/${MISSING}"`)))
	require.NoError(t, registry.Validate())

	return NewContext(store, registry)
}

func TestTemplateSubstitutesVariables(t *testing.T) {
	scope := newScope(t)

	out, err := scope.Template("img:dev_${GIT_REV}")
	require.NoError(t, err)
	assert.Equal(t, "img:dev_abc123", out)
}

func TestTemplateWithoutPlaceholdersIsLiteral(t *testing.T) {
	scope := newScope(t)

	out, err := scope.Template("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestStringEvaluatesFunctionCalls(t *testing.T) {
	scope := newScope(t)

	out, err := scope.String(parseExpr(t, `one_tag("validator")`))
	require.NoError(t, err)
	assert.Equal(t, "registry/validator", out)
}

func TestStringListAcceptsSequencesAndScalars(t *testing.T) {
	scope := newScope(t)

	list, err := scope.StringList(parseExpr(t, `generate_tags("validator")`))
	require.NoError(t, err)
	assert.Equal(t, []string{"registry/validator:dev_abc123"}, list)

	single, err := scope.StringList(parseExpr(t, `"only"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, single)
}

func TestUnknownVariableIsUnresolvedReference(t *testing.T) {
	scope := newScope(t)

	_, err := scope.String(parseExpr(t, `"${NOPE}"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestUnknownFunctionIsUnresolvedReference(t *testing.T) {
	scope := newScope(t)

	_, err := scope.String(parseExpr(t, `nope("x")`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestUnresolvedReferenceInsideFunctionBody(t *testing.T) {
	scope := newScope(t)

	_, err := scope.String(parseExpr(t, `broken("x")`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestArityMismatchInExpression(t *testing.T) {
	scope := newScope(t)

	_, err := scope.String(parseExpr(t, `one_tag("a", "b")`))
	require.Error(t, err)
	assert.ErrorIs(t, err, funcs.ErrArityMismatch)

	_, err = scope.String(parseExpr(t, `one_tag()`))
	require.Error(t, err)
	assert.ErrorIs(t, err, funcs.ErrArityMismatch)
}

func TestInvokeBindsParametersPositionally(t *testing.T) {
	scope := newScope(t)

	tags, err := scope.Invoke("generate_tags", []string{"validator"})
	require.NoError(t, err)
	assert.Equal(t, []string{"registry/validator:dev_abc123"}, tags)
}

func TestInvokeParameterShadowsOuterVariable(t *testing.T) {
	scope := newScope(t)

	// The store declares target="outer"; the binding must win.
	tags, err := scope.Invoke("generate_tags", []string{"inner"})
	require.NoError(t, err)
	assert.Equal(t, []string{"registry/inner:dev_abc123"}, tags)
}

func TestInvokeArityMismatch(t *testing.T) {
	scope := newScope(t)

	_, err := scope.Invoke("generate_tags", []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, funcs.ErrArityMismatch)
}

func TestInvokeUnknownFunction(t *testing.T) {
	scope := newScope(t)

	_, err := scope.Invoke("nope", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestBuiltinFunctionsAvailable(t *testing.T) {
	scope := newScope(t)

	out, err := scope.String(parseExpr(t, `upper("abc")`))
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	out, err = scope.String(parseExpr(t, `format("%s:%s", REGISTRY, GIT_REV)`))
	require.NoError(t, err)
	assert.Equal(t, "registry:abc123", out)
}

func TestEvaluationIsReferentiallyTransparent(t *testing.T) {
	scope := newScope(t)
	expr := parseExpr(t, `"${REGISTRY}/${target}:dev_${GIT_REV}"`)

	first, err := scope.String(expr)
	require.NoError(t, err)
	second, err := scope.String(expr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "registry/outer:dev_abc123", first)
}

func TestDefaultStringAllowsBuiltinsButNoVariables(t *testing.T) {
	out, err := DefaultString(parseExpr(t, `lower("LATEST")`))
	require.NoError(t, err)
	assert.Equal(t, "latest", out)

	_, err = DefaultString(parseExpr(t, `"${OTHER_VAR}"`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}
