package stdlib_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsonnet-run/jsonnet/program"
)

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

// spec.md §8 scenario 1.
func TestScenarioObjectPlusOverride(t *testing.T) {
	require.JSONEq(t, `{"a": 21}`, evalJSON(t, `{ a: 1 } + { a+: 20 }`))
}

// spec.md §8 scenario 2.
func TestScenarioSelfSeesOverride(t *testing.T) {
	require.JSONEq(t, `{"a": 2, "b": 2}`, evalJSON(t, `{ a: 1, b: self.a } + { a: 2 }`))
}

// spec.md §8 scenario 3.
func TestScenarioDefaultAndNamedParams(t *testing.T) {
	require.JSONEq(t, `[[1,1],[1,2],[4,3]]`,
		evalJSON(t, `local f(x, y=x) = [x, y]; [f(1), f(1, 2), f(y=3, x=4)]`))
}

// spec.md §8 scenario 4.
func TestScenarioManifestIni(t *testing.T) {
	got := evalString(t, `std.manifestIni({ main: { a: 1 }, sections: { s: { b: 2, c: 3 } } })`)
	require.Equal(t, "a = 1\n[s]\nb = 2\nc = 3\n", got)
}

// spec.md §8 scenario 5.
func TestScenarioFormat(t *testing.T) {
	require.Equal(t, `"-0031"`, evalJSON(t, `std.format("%05.4i", [-31])`))
	require.Equal(t, `"1.2"`, evalJSON(t, `std.format("%#.2g", [1.25])`))
}

// The `#` flag on %g keeps trailing zeros that %g normally strips.
func TestFormatHashGKeepsTrailingZeros(t *testing.T) {
	require.Equal(t, `"1.500"`, evalJSON(t, `std.format("%#.4g", [1.5])`))
	require.Equal(t, `"1.5"`, evalJSON(t, `std.format("%.4g", [1.5])`))
}

// spec.md §8 scenario 6.
func TestScenarioParseYamlAlias(t *testing.T) {
	require.JSONEq(t, `{"a":[1,2],"b":[1,2]}`, evalJSON(t, `std.parseYaml("a: &x [1,2]\nb: *x\n")`))
}

func TestAbsZeroQuirk(t *testing.T) {
	require.Equal(t, `"-0"`, evalJSON(t, `std.toString(std.abs(0))`))
	require.Equal(t, `"0"`, evalJSON(t, `std.toString(std.abs(-0))`))
}

func TestUnicodeScalarLength(t *testing.T) {
	require.Equal(t, "4", evalJSON(t, `std.length("🧶🧺🧲🧢")`))
}

func TestParseYamlEmptyIsNull(t *testing.T) {
	require.Equal(t, "null", evalJSON(t, `std.parseYaml("")`))
}

func TestParseYamlOctalQuirk(t *testing.T) {
	require.Equal(t, `"0o8"`, evalJSON(t, `std.parseYaml("0o8")`))
	require.Equal(t, "7", evalJSON(t, `std.parseYaml("0o7")`))
}

func TestModuloSignFollowsDividend(t *testing.T) {
	require.Equal(t, "-1.5", evalJSON(t, `std.modulo(-5.5, 2)`))
	require.Equal(t, "0.75", evalJSON(t, `1.5 / 2`))
}

func TestSortIsPermutationAndNonDecreasing(t *testing.T) {
	require.JSONEq(t, `[1,2,3,4,5]`, evalJSON(t, `std.sort([5,3,1,4,2])`))
}

func TestSetIsSortedDedupedDistinct(t *testing.T) {
	require.JSONEq(t, `[1,2,3]`, evalJSON(t, `std.set([3,1,2,1,3,2])`))
}

func TestObjectHasMatchesObjectFields(t *testing.T) {
	require.Equal(t, "true", evalJSON(t, `std.objectHas({ a: 1 }, "a")`))
	require.Equal(t, "false", evalJSON(t, `std.objectHas({ a:: 1 }, "a")`))
}

func TestMakeArrayLazy(t *testing.T) {
	// f(i) for the element never accessed must not be forced.
	got := evalJSON(t, `std.makeArray(3, function(i) if i == 1 then error 'boom' else i)[0]`)
	require.Equal(t, "0", got)
}

func TestBase64RoundTrip(t *testing.T) {
	require.Equal(t, `"hello"`, evalJSON(t, `std.base64Decode(std.base64("hello"))`))
}

func TestUTF8RoundTrip(t *testing.T) {
	require.Equal(t, `"héllo🎉"`, evalJSON(t, `std.decodeUTF8(std.encodeUTF8("héllo🎉"))`))
}

func TestParseJSONManifestRoundTrip(t *testing.T) {
	got := evalJSON(t, `std.parseJson(std.manifestJsonMinified({ a: 1, b: [1, 2, "x"] }))`)
	require.JSONEq(t, `{"a":1,"b":[1,2,"x"]}`, got)
}

func TestThisFileReportsImporterNotStdlib(t *testing.T) {
	require.Equal(t, `"test.jsonnet"`, evalJSON(t, `std.thisFile`))
}
