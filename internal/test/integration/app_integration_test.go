package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wake/internal/core/app"
	"wake/internal/core/config"
	"wake/internal/engine/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFiles(t *testing.T, tmpDir string) {
	files := map[string]string{
		"main.py": `import shop.models
from shop import pricing

cart = shop.models.Cart()
cart.add(pricing.discount(10))
print(cart.total)

if __name__ == "__main__":
    def cli_only():
        pass
`,
		"shop/__init__.py": "",
		"shop/models.py": `class Cart:
    def __init__(self):
        self.items = []
        self.coupon = None

    def add(self, item):
        self.items.append(item)

    @property
    def total(self):
        return sum(self.items)

    @property
    def weight(self):
        return 0

    def __repr__(self):
        return "Cart(%(items)s)" % self.__dict__
`,
		"shop/pricing.py": `from . import rates

def discount(amount):
    for base, factor in rates.TABLE:
        amount -= base
    return amount

def legacy_discount(amount):
    return amount

if __name__ == "__main__":
    def debug_pricing():
        pass
`,
		"shop/rates.py":  "TABLE = [(1, 2)]\nunused_rate = 3\n",
		"shop/broken.py": "def broken(:\n",
	}
	for rel, content := range files {
		path := filepath.Join(tmpDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newApp(t *testing.T, tmpDir string, mutate func(*config.Config)) (*app.App, *bytes.Buffer) {
	cfg := config.Default()
	noInterpreter := ""
	cfg.Python.Interpreter = &noInterpreter
	if mutate != nil {
		mutate(cfg)
	}

	var stdout bytes.Buffer
	a, err := app.New(context.Background(), cfg, app.Options{
		Stdout:  &stdout,
		Stderr:  &stdout,
		WorkDir: tmpDir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, &stdout
}

func unusedNames(occs []symbols.Occurrence) map[string]symbols.Kind {
	out := make(map[string]symbols.Kind, len(occs))
	for _, occ := range occs {
		out[occ.Name] = occ.Kind
	}
	return out
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	a, stdout := newApp(t, tmpDir, func(cfg *config.Config) {
		cfg.Scan.HaltOnMain = true
	})

	result, err := a.Scan(context.Background(), []string{filepath.Join(tmpDir, "main.py")})
	require.NoError(t, err)

	unused := unusedNames(result.Unused())
	for name, kind := range map[string]symbols.Kind{
		"legacy_discount": symbols.KindFunction,
		"weight":          symbols.KindProperty,
		"coupon":          symbols.KindAttribute,
		"unused_rate":     symbols.KindVariable,
	} {
		got, ok := unused[name]
		if assert.True(t, ok, "expected %s to be reported", name) {
			assert.Equal(t, kind, got, name)
		}
	}
	// The entry file keeps its main block; imported files stop at theirs.
	assert.Contains(t, unused, "cli_only")
	assert.NotContains(t, unused, "debug_pricing")

	for _, used := range []string{"Cart", "add", "total", "discount", "items", "TABLE", "cart", "__init__", "__repr__", "base", "factor"} {
		assert.NotContains(t, unused, used)
	}

	imports := result.ImportPaths()
	assert.ElementsMatch(t, []string{
		filepath.Join(tmpDir, "shop", "models.py"),
		filepath.Join(tmpDir, "shop", "pricing.py"),
		filepath.Join(tmpDir, "shop", "rates.py"),
	}, imports)
	assert.Empty(t, result.SyntaxErrors())
	assert.Empty(t, stdout.String())
}

func TestDirectoryScanReportsSyntaxErrors(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	a, stdout := newApp(t, tmpDir, nil)
	result, err := a.Scan(context.Background(), []string{tmpDir})
	require.NoError(t, err)

	require.Len(t, result.SyntaxErrors(), 1)
	assert.Contains(t, stdout.String(), "Syntax error in file "+filepath.Join(tmpDir, "shop", "broken.py"))
	// Every file was named on the command line, so nothing came from imports.
	assert.Empty(t, result.ImportPaths())

	require.NoError(t, a.Emit(result))
	out := stdout.String()
	assert.NotContains(t, out, "Import paths:")
	assert.True(t, strings.Contains(out, "Unused function 'legacy_discount'"), out)
}

func TestExcludedImportsAreNotScanned(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	a, _ := newApp(t, tmpDir, func(cfg *config.Config) {
		cfg.Scan.Exclude = []string{"*/shop/rates.py"}
	})
	result, err := a.Scan(context.Background(), []string{filepath.Join(tmpDir, "main.py")})
	require.NoError(t, err)

	unused := unusedNames(result.Unused())
	assert.NotContains(t, unused, "unused_rate")
	assert.NotContains(t, result.ImportPaths(), filepath.Join(tmpDir, "shop", "rates.py"))
}
