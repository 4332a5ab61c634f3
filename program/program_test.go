package program_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/program"
)

// evalJSON runs src end to end (new Program, parse, evaluate for JSON,
// manifest) and returns the manifested text unchanged.
func evalJSON(t *testing.T, src string) string {
	t.Helper()
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(src))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeJSON)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeJSON, program.ManifestOptions{})
	require.NoError(t, err)
	return string(out)
}

func TestEvaluateSimpleObject(t *testing.T) {
	got := evalJSON(t, `{ a: 1, b: 2 + 3 }`)
	require.Equal(t, "{\n  \"a\": 1,\n  \"b\": 5\n}", got)
}

func TestEvaluateStringMode(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(`"hello, " + "world"`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeString)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeString, program.ManifestOptions{})
	require.NoError(t, err)
	require.Equal(t, "hello, world", string(out))
}

func TestEvaluateStringModeRejectsNonString(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(`{ a: 1 }`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	_, err = p.Evaluate(ah, program.ModeString)
	require.Error(t, err)
}

func TestExtVar(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	p.SetExtVar("name", "world")
	sh := p.AddSource("test.jsonnet", []byte(`"hello, " + std.extVar("name")`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeString)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeString, program.ManifestOptions{})
	require.NoError(t, err)
	require.Equal(t, "hello, world", string(out))
}

func TestTopLevelArgument(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	require.NoError(t, p.SetTLACode("x", "21"))
	sh := p.AddSource("test.jsonnet", []byte(`function(x) x * 2`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeJSON)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeJSON, program.ManifestOptions{})
	require.NoError(t, err)
	require.Equal(t, "42", string(out))
}

func TestMultiFileMode(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(`{ "a.json": { x: 1 }, "b.json": { y: 2 } }`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeMultiFile)
	require.NoError(t, err)
	files, err := p.ManifestMultiFile(vh, program.ManifestOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Contains(t, string(files["a.json"]), `"x": 1`)
	require.Contains(t, string(files["b.json"]), `"y": 2`)
}
