package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinclude/internal/config"
	"autoinclude/internal/diag"
	"autoinclude/internal/dialect"
	"autoinclude/internal/plan"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, plan.Append, cfg.Fix.Convention)
	assert.Equal(t, dialect.Unknown, cfg.Fix.Dialect)
	assert.True(t, cfg.Files.Gitignore)
	assert.Equal(t, "pretty", cfg.Output.Format)
	assert.Equal(t, diag.DefaultMaxDiagnostics, cfg.Output.MaxDiagnostics)
	assert.NoError(t, cfg.Validate())
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := config.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	file := filepath.Join(nested, "x.c")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	got, err = config.Find(file)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := config.Discover(t.TempDir(), nil)
	// a config file above the temp dir would make this test meaningless
	if err == nil {
		t.Skipf("found %s above the temporary directory", cfg.Path)
	}
	assert.True(t, errors.Is(err, config.ErrNotFound))
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[fix]
convention = "grouped"
dialect = "cpp"
backup = ".orig"

[files]
exclude = ["third_party/**"]
gitignore = false

[output]
jobs = 4
`)
	bag := diag.NewBag(0)
	cfg, err := config.Load(path, diag.BagReporter{Bag: bag})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, plan.Grouped, cfg.Fix.Convention)
	assert.Equal(t, dialect.CPP, cfg.Fix.Dialect)
	assert.Equal(t, ".orig", cfg.Fix.Backup)
	assert.Equal(t, []string{"third_party/**"}, cfg.Files.Exclude)
	assert.False(t, cfg.Files.Gitignore)
	assert.Equal(t, 4, cfg.Output.Jobs)
	// untouched keys keep their defaults
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Zero(t, bag.Len())
}

func TestLoadReportsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[fix]\nconvention = \"append\"\nsort = true\n")
	bag := diag.NewBag(0)
	_, err := config.Load(path, diag.BagReporter{Bag: bag})
	require.NoError(t, err)

	found := bag.ByCode(diag.CfgUnknownKey)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Message, "fix.sort")
	assert.Equal(t, diag.SevWarning, found[0].Severity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"convention": "[fix]\nconvention = \"sorted\"\n",
		"dialect":    "[fix]\ndialect = \"fortran\"\n",
		"both":       "[fix]\ndialect = \"both\"\n",
		"backup":     "[fix]\nbackup = \"../x\"\n",
		"color":      "[output]\ncolor = \"sometimes\"\n",
		"jobs":       "[output]\njobs = -1\n",
		"syntax":     "[fix\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			cfg, err := config.Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
			assert.Equal(t, config.Default(), cfg)
		})
	}
}
