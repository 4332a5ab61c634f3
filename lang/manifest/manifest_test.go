package manifest_test

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/program"
)

// requireEqualText fails t with a readable unified diff instead of two
// opaque multi-line strings, which matters here since manifest output is
// exactly the kind of long formatted text where require.Equal's default
// failure message hides which line actually diverged.
func requireEqualText(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		t.Fatalf("mismatch (-want +got):\n%s", diff.Diff(want, got))
	}
}

func evalString(t *testing.T, src string) string {
	t.Helper()
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(src))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeString)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeString, program.ManifestOptions{})
	require.NoError(t, err)
	return string(out)
}

const hiddenObj = `{ visible: 1, hidden:: 2 }`

// spec.md §8 universal invariant: hidden fields never appear in any
// manifester output.
func TestHiddenFieldExcludedFromJSON(t *testing.T) {
	got := evalString(t, `std.manifestJson(`+hiddenObj+`)`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestHiddenFieldExcludedFromYAML(t *testing.T) {
	got := evalString(t, `std.manifestYamlDoc(`+hiddenObj+`)`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestHiddenFieldExcludedFromToml(t *testing.T) {
	got := evalString(t, `std.manifestTomlEx(`+hiddenObj+`, "  ")`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestHiddenFieldExcludedFromIni(t *testing.T) {
	got := evalString(t, `std.manifestIni({ main: `+hiddenObj+`, sections: {} })`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestHiddenFieldExcludedFromPython(t *testing.T) {
	got := evalString(t, `std.manifestPython(`+hiddenObj+`)`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestHiddenFieldExcludedFromPythonVars(t *testing.T) {
	got := evalString(t, `std.manifestPythonVars(`+hiddenObj+`)`)
	require.NotContains(t, got, "hidden")
	require.Contains(t, got, "visible")
}

func TestManifestYamlStreamOnePerElement(t *testing.T) {
	got := evalString(t, `std.manifestYamlStream([{ a: 1 }, { b: 2 }])`)
	require.Contains(t, got, "a: 1")
	require.Contains(t, got, "b: 2")
	require.Contains(t, got, "---")
}

func TestManifestPythonRendersNoneTrueFalse(t *testing.T) {
	got := evalString(t, `std.manifestPython({ a: null, b: true, c: false })`)
	require.Contains(t, got, "None")
	require.Contains(t, got, "True")
	require.Contains(t, got, "False")
}

func TestManifestTableDriven(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"json-default-indent", `std.manifestJson({ a: 1, b: 2 })`, "{\n    \"a\": 1,\n    \"b\": 2\n}"},
		{"json-minified", `std.manifestJsonMinified({ a: 1, b: [1, 2] })`, `{"a":1,"b":[1,2]}`},
		{"ini-nested-sections", `std.manifestIni({ main: { a: 1 }, sections: { s: { b: 2, c: 3 } } })`, "a = 1\n[s]\nb = 2\nc = 3\n"},
		{"yaml-doc-scalar", `std.manifestYamlDoc("hello")`, "hello\n"},
		{"xml-jsonml", `std.manifestXmlJsonml(['p', {}, 'hi'])`, "<p>hi</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalString(t, tc.src)
			requireEqualText(t, tc.want, got)
		})
	}
}

func TestManifestNumberNeverUsesScientificNotation(t *testing.T) {
	requireEqualText(t, "1234567", evalString(t, `std.manifestJson(1234567)`))
	requireEqualText(t, "0.00001", evalString(t, `std.manifestJson(0.00001)`))
}

func TestManifestRejectsFunction(t *testing.T) {
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(`std.manifestJson(function() 1)`))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	_, err = p.Evaluate(ah, program.ModeString)
	require.Error(t, err)
}
