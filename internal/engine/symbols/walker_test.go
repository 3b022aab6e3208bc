package symbols

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"wake/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// collectSource scans a single file holding src.
func collectSource(t *testing.T, src string) *Accumulators {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.py")
	writeSource(t, path, src)

	p, err := parser.NewParser()
	require.NoError(t, err)
	c := NewCollector(p, nil, Options{Diagnostics: &bytes.Buffer{}})
	require.NoError(t, c.Run(context.Background(), []string{path}))
	return c.Accumulators()
}

func names(occs []Occurrence) []string {
	out := make([]string, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Name)
	}
	return out
}

func TestFunctionDefinition(t *testing.T) {
	acc := collectSource(t, "import os\n\n\ndef foo():\n    pass\n")

	require.Len(t, acc.DefinedFuncs, 1)
	occ := acc.DefinedFuncs[0]
	assert.Equal(t, "foo", occ.Name)
	assert.Equal(t, KindFunction, occ.Kind)
	assert.Equal(t, 4, occ.Line)
	assert.Equal(t, "def foo():", occ.Text)
}

func TestDunderMethodsAreNotDefinitions(t *testing.T) {
	acc := collectSource(t, "class A:\n    def __init__(self):\n        pass\n\n    def __len__(self):\n        return 0\n")

	require.Len(t, acc.DefinedFuncs, 1)
	assert.Equal(t, "A", acc.DefinedFuncs[0].Name)
	assert.Equal(t, KindClass, acc.DefinedFuncs[0].Kind)
}

func TestPropertyDecorator(t *testing.T) {
	src := `class Box:
    @property
    def size(self):
        return 1

    @size.setter
    def size(self, value):
        pass
`
	acc := collectSource(t, src)

	require.Len(t, acc.DefinedProps, 1)
	assert.Equal(t, "size", acc.DefinedProps[0].Name)
	assert.Equal(t, 3, acc.DefinedProps[0].Line)
	assert.Equal(t, []string{"Box", "size"}, names(acc.DefinedFuncs))
	assert.Contains(t, acc.UsedFuncs, "property")
	assert.Contains(t, acc.UsedAttrs, "setter")
}

func TestVariablesDefinedAndUsed(t *testing.T) {
	acc := collectSource(t, "x = 1\n_hidden = 2\nprint(x)\n")

	assert.Equal(t, []string{"x"}, names(acc.DefinedVars))
	assert.Contains(t, acc.UsedVars, "x")
	assert.Contains(t, acc.UsedVars, "print")
	assert.Contains(t, acc.UsedFuncs, "x")
	assert.Contains(t, acc.UsedFuncs, "_hidden")
	assert.NotContains(t, acc.UsedVars, "_hidden")
}

func TestObjectIsIgnored(t *testing.T) {
	acc := collectSource(t, "class A(object):\n    pass\nobject = 3\n")

	assert.NotContains(t, acc.UsedFuncs, "object")
	assert.Empty(t, acc.DefinedVars)
}

func TestAttributes(t *testing.T) {
	acc := collectSource(t, "class A:\n    def __init__(self):\n        self.value = 3\n\nprint(A().other)\n")

	require.Len(t, acc.DefinedAttrs, 1)
	assert.Equal(t, "value", acc.DefinedAttrs[0].Name)
	assert.Equal(t, 3, acc.DefinedAttrs[0].Line)
	assert.Equal(t, "        self.value = 3", acc.DefinedAttrs[0].Text)
	assert.Equal(t, []string{"other"}, acc.UsedAttrs)
	assert.Contains(t, acc.UsedVars, "self")
	assert.NotContains(t, acc.UsedFuncs, "value")
}

func TestAugmentedAttributeAssignmentDefines(t *testing.T) {
	acc := collectSource(t, "counter.hits += 1\n")

	assert.Equal(t, []string{"hits"}, names(acc.DefinedAttrs))
	assert.Contains(t, acc.UsedVars, "counter")
}

func TestParametersAreUsedFunctionNamesOnly(t *testing.T) {
	acc := collectSource(t, "def f(arg, *rest, flag=default, **extra):\n    pass\n")

	for _, name := range []string{"arg", "rest", "flag", "extra"} {
		assert.Contains(t, acc.UsedFuncs, name)
		assert.NotContains(t, acc.UsedVars, name)
	}
	assert.Empty(t, acc.DefinedVars)
	assert.Contains(t, acc.UsedVars, "default")
}

func TestKeywordArgumentNamesAreNotUses(t *testing.T) {
	acc := collectSource(t, "call(key=value)\n")

	assert.NotContains(t, acc.UsedFuncs, "key")
	assert.Contains(t, acc.UsedVars, "value")
}

func TestTupleTargetsAreExempt(t *testing.T) {
	acc := collectSource(t, "a, b = 1, 2\n(c, d) = pair\nfor e, f in pairs():\n    use(e)\n")

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f"}, acc.TupleAssignVars)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f"}, names(acc.DefinedVars))
}

func TestComprehensionTupleTargetsAreExempt(t *testing.T) {
	acc := collectSource(t, "out = [k for k, v in items]\n")

	assert.ElementsMatch(t, []string{"k", "v"}, acc.TupleAssignVars)
}

func TestListTargetsAreNotExempt(t *testing.T) {
	acc := collectSource(t, "[a, b] = pair\n")

	assert.Empty(t, acc.TupleAssignVars)
	assert.ElementsMatch(t, []string{"a", "b"}, names(acc.DefinedVars))
}

func TestFormatStringKeysAreUses(t *testing.T) {
	acc := collectSource(t, "print('%(name)s is %(age)s' % locals())\n")

	assert.Contains(t, acc.UsedVars, "name")
	assert.Contains(t, acc.UsedVars, "age")
}

func TestWithTargetIsDefinedExceptAliasIsNot(t *testing.T) {
	src := `with open(path) as handle:
    pass
try:
    pass
except ValueError as err:
    pass
`
	acc := collectSource(t, src)

	assert.Equal(t, []string{"handle"}, names(acc.DefinedVars))
	assert.Contains(t, acc.UsedVars, "ValueError")
}

func TestWalrusDefines(t *testing.T) {
	acc := collectSource(t, "if (n := size()) > 3:\n    pass\n")

	assert.Equal(t, []string{"n"}, names(acc.DefinedVars))
}

func TestGlobalNamesAreNotUses(t *testing.T) {
	acc := collectSource(t, "def f():\n    global counter\n    counter = 1\n")

	assert.Equal(t, []string{"counter"}, names(acc.DefinedVars))
	assert.NotContains(t, acc.UsedVars, "counter")
}

func TestDeleteIsUseOfFunctionNameOnly(t *testing.T) {
	acc := collectSource(t, "del gone\n")

	assert.Contains(t, acc.UsedFuncs, "gone")
	assert.NotContains(t, acc.UsedVars, "gone")
	assert.Empty(t, acc.DefinedVars)
}

func TestImportedNamesAreNotRecorded(t *testing.T) {
	acc := collectSource(t, "import os.path as p\nfrom collections import deque\n")

	assert.Empty(t, acc.UsedFuncs)
	assert.Empty(t, acc.DefinedVars)
}
