package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/funvibe/alpine/internal/config"
	"github.com/funvibe/alpine/internal/diagnostics"
	"github.com/funvibe/alpine/internal/pipeline"
	"github.com/funvibe/alpine/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// settingsFor parses args the way the analysis commands do and returns
// the resulting settings.
func settingsFor(t *testing.T, file string, args ...string) (*config.Settings, error) {
	t.Helper()
	var settings *config.Settings
	var loadErr error
	cmd := &cli.Command{
		Name:  "check",
		Flags: analysisFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, loadErr = loadSettings(cmd, file)
			return nil
		},
	}
	require.NoError(t, cmd.Run(t.Context(), append(append([]string{"check"}, args...), file)))
	return settings, loadErr
}

func TestLoadSettingsFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "custom.yaml", "solver:\n  timeout: 5s\n  trace: true\noutput:\n  color: never\n")
	file := writeFile(t, dir, "m.alp.yaml", "statements: []\n")

	settings, err := settingsFor(t, file, "--config", cfg, "--timeout", "2s", "--parallel", "--color", "always")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, settings.Solver.Timeout)
	assert.True(t, settings.Solver.ParallelDisjunctions)
	assert.True(t, settings.Solver.Trace, "unset flags keep the file's value")
	assert.Equal(t, config.DefaultMaxParallel, settings.Solver.MaxParallel)
	assert.Equal(t, config.ColorAlways, settings.Output.Color)
}

func TestLoadSettingsFindsConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpine.yaml", "solver:\n  timeout: 3s\n")
	file := writeFile(t, dir, "m.alp.yaml", "statements: []\n")

	settings, err := settingsFor(t, file)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, settings.Solver.Timeout)
	assert.Equal(t, config.ColorAuto, settings.Output.Color)
}

func TestLoadSettingsRejectsColor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpine.yaml", "")
	file := writeFile(t, dir, "m.alp.yaml", "statements: []\n")

	_, err := settingsFor(t, file, "--color", "purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"purple"`)
}

func TestPrintDiagnostics(t *testing.T) {
	pctx := pipeline.NewPipelineContext("m.alp.yaml", nil)
	var buf bytes.Buffer
	assert.False(t, printDiagnostics(&buf, pctx, false))
	assert.Empty(t, buf.String())

	pctx.AddError(diagnostics.NewError(diagnostics.ErrA001, token.Token{Line: 3, Column: 5}, "y"))
	assert.True(t, printDiagnostics(&buf, pctx, false))
	assert.Equal(t, "m.alp.yaml:3:5: A001 undefined symbol: y\n", buf.String())

	buf.Reset()
	printDiagnostics(&buf, pctx, true)
	assert.Contains(t, buf.String(), colorRed+"A001 undefined symbol"+colorReset)
}

func TestPrintTypes(t *testing.T) {
	src := `module: m
statements:
  - type: T
    is: {union: [Int, Bool]}
  - func: f
    params: [{name: x, type: Int}]
    returns: Int
    body: {ident: x}
  - call: {callee: {ident: f}, args: [{int: 1}]}
`
	path := writeFile(t, t.TempDir(), "m.alp.yaml", src)
	pctx, err := analyze(t.Context(), path, config.DefaultSettings(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.Empty(t, pctx.Errors)

	var buf bytes.Buffer
	printTypes(&buf, pctx)
	assert.Equal(t, "type T = ( Int or Bool )\nfunc f: (Int) -> Int\nf(1) : Int\n", buf.String())
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := analyze(t.Context(), filepath.Join(t.TempDir(), "nope.alp.yaml"), config.DefaultSettings(), slog.New(slog.DiscardHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading module")
}
