package eval_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/program"
)

// requireEqualText fails t with a readable unified diff (rather than two
// opaque strings) when want and got mismatch; used by the table-driven case
// below where a bare require.Equal failure would only show one JSON blob
// against another with no indication of which field diverged.
func requireEqualText(t *testing.T, want, got string) {
	t.Helper()
	if want != got {
		t.Fatalf("mismatch (-want +got):\n%s", diff.Diff(want, got))
	}
}

func evalJSON(t *testing.T, src string) string {
	t.Helper()
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(src))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeJSON)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeJSON, program.ManifestOptions{Indent: ""})
	require.NoError(t, err)
	return string(out)
}

func evalJSONMinified(t *testing.T, src string) string {
	t.Helper()
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(src))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeJSON)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeJSON, program.ManifestOptions{Minified: true})
	require.NoError(t, err)
	return string(out)
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	p, err := program.New(program.Options{})
	require.NoError(t, err)
	sh := p.AddSource("test.jsonnet", []byte(src))
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	_, err = p.Evaluate(ah, program.ModeJSON)
	return err
}

func TestObjectCompositionRightBiased(t *testing.T) {
	got := evalJSON(t, `{ a: 1, b: 2 } + { b: 3, c: 4 }`)
	require.JSONEq(t, `{"a":1,"b":3,"c":4}`, got)
}

func TestObjectPlusFieldInherits(t *testing.T) {
	got := evalJSON(t, `{ a: [1, 2] } + { a+: [3] }`)
	require.JSONEq(t, `{"a":[1,2,3]}`, got)
}

func TestHiddenFieldExcludedFromManifest(t *testing.T) {
	got := evalJSON(t, `{ a: 1, b:: 2 }`)
	require.JSONEq(t, `{"a":1}`, got)
}

func TestForcedVisibleOverridesHidden(t *testing.T) {
	got := evalJSON(t, `{ a:: 1 } + { a:::2 }`)
	require.JSONEq(t, `{"a":2}`, got)
}

func TestSelfSuper(t *testing.T) {
	got := evalJSON(t, `
local base = { x: 1, y: self.x + 1 };
local derived = base + { x: 10, z: super.y };
derived
`)
	// derived.y re-evaluates self.x against the composed self (x=10), so
	// y=11; z reads the base layer's y through super, which itself sees
	// the same composed self, so z==y==11.
	require.JSONEq(t, `{"x":10,"y":11,"z":11}`, got)
}

func TestArrayComprehension(t *testing.T) {
	got := evalJSON(t, `[x * x for x in [1, 2, 3, 4] if x % 2 == 0]`)
	require.JSONEq(t, `[4,16]`, got)
}

func TestObjectComprehension(t *testing.T) {
	got := evalJSON(t, `{ [k]: k + k for k in ["a", "b"] }`)
	require.JSONEq(t, `{"a":"aa","b":"bb"}`, got)
}

func TestLazyFieldNeverForced(t *testing.T) {
	// accessing `a` must not force the erroring field `b`.
	got := evalJSON(t, `{ a: 1, b: error 'boom' }.a`)
	require.Equal(t, "1", got)
}

func TestErrorPropagatesFromField(t *testing.T) {
	err := evalErr(t, `{ a: error 'boom' }.a`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestPlusFieldPropagatesInheritedError(t *testing.T) {
	err := evalErr(t, `local base = { a: error "boom" }; (base + { a+: 5 }).a`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestPlusFieldDegradesWhenNoLowerOccurrence(t *testing.T) {
	got := evalJSON(t, `({} + { a+: 5 }).a`)
	require.Equal(t, "5", got)
}

func TestEscapeStringJsonCoercesNonString(t *testing.T) {
	got := evalJSON(t, `std.escapeStringJson(1.25)`)
	require.Equal(t, `"\"1.25\""`, got)
}

func TestEscapeStringJsonPassesStringThrough(t *testing.T) {
	got := evalJSON(t, `std.escapeStringJson("a\"b")`)
	require.Equal(t, `"\"a\\\"b\""`, got)
}

func TestSliceString(t *testing.T) {
	got := evalJSON(t, `"hello world"[0:5]`)
	require.Equal(t, `"hello"`, got)
}

func TestSliceArrayStep(t *testing.T) {
	got := evalJSON(t, `[0, 1, 2, 3, 4, 5][0:6:2]`)
	require.JSONEq(t, `[0,2,4]`, got)
}

func TestDuplicateFieldIsAnError(t *testing.T) {
	err := evalErr(t, `{ a: 1, a: 2 }`)
	require.Error(t, err)
}

func TestDivisionByZero(t *testing.T) {
	err := evalErr(t, `1 / 0`)
	require.Error(t, err)
}

func TestNonObjectSuperParent(t *testing.T) {
	err := evalErr(t, `{ a: super.x }.a`)
	require.Error(t, err)
}

func TestImportResolvesRelativeToImportingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.jsonnet"), []byte(`{ greeting: "hi" }`), 0o644))
	main := filepath.Join(dir, "main.jsonnet")
	require.NoError(t, os.WriteFile(main, []byte(`(import "lib.jsonnet").greeting`), 0o644))

	p, err := program.New(program.Options{})
	require.NoError(t, err)
	contents, err := os.ReadFile(main)
	require.NoError(t, err)
	sh := p.AddSource(main, contents)
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	vh, err := p.Evaluate(ah, program.ModeString)
	require.NoError(t, err)
	out, err := p.Manifest(vh, program.ModeString, program.ManifestOptions{})
	require.NoError(t, err)
	require.Equal(t, "hi", string(out))
}

func TestEvalTableDriven(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"composition-plus", `{ a: 1, b: 2 } + { b: 3, c: 4 }`, `{"a":1,"b":3,"c":4}`},
		{"composition-field-plus", `{ a: [1, 2] } + { a+: [3] }`, `{"a":[1,2,3]}`},
		{"self-sees-override", `{ a: 1, b: self.a } + { a: 2 }`, `{"a":2,"b":2}`},
		{"array-comp", `[x * x for x in [1, 2, 3, 4] if x % 2 == 0]`, `[4,16]`},
		{"object-comp", `{ [k]: k + k for k in ["a", "b"] }`, `{"a":"aa","b":"bb"}`},
		{"slice-string", `"hello world"[0:5]`, `"hello"`},
		{"slice-array-step", `[0, 1, 2, 3, 4, 5][0:6:2]`, `[0,2,4]`},
		{"if-then-else", `if 1 < 2 then "yes" else "no"`, `"yes"`},
		{"local-shadow", `local x = 1; local y = x + 1; local x = y; x`, `2`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := evalJSONMinified(t, tc.src)
			requireEqualText(t, tc.want, got)
		})
	}
}

func TestImportstrRejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.bin"), []byte{0xff, 0xfe}, 0o644))
	main := filepath.Join(dir, "main.jsonnet")
	require.NoError(t, os.WriteFile(main, []byte(`importstr "bad.bin"`), 0o644))

	p, err := program.New(program.Options{})
	require.NoError(t, err)
	contents, err := os.ReadFile(main)
	require.NoError(t, err)
	sh := p.AddSource(main, contents)
	ah, err := p.Parse(sh)
	require.NoError(t, err)
	_, err = p.Evaluate(ah, program.ModeString)
	require.Error(t, err)
}
