package maincmd

import (
	"os"
	"strings"
)

// splitVarSpec parses a `var[=val]` command-line argument: if there is no
// `=`, hasVal is false and the caller falls back to an environment
// lookup (spec.md §6's `-V var[=val]` and `--ext-code var[=code]`).
func splitVarSpec(spec string) (name, val string, hasVal bool) {
	if i := strings.IndexByte(spec, '='); i >= 0 {
		return spec[:i], spec[i+1:], true
	}
	return spec, "", false
}

// splitVarFile parses a `var=file` command-line argument, required (no
// bare-name form) for the `--ext-str-file`, `--ext-code-file`,
// `--tla-str-file` and `--tla-code-file` flags.
func splitVarFile(spec string) (name, file string, err error) {
	i := strings.IndexByte(spec, '=')
	if i < 0 {
		return "", "", usagef("expected var=file, got %q", spec)
	}
	return spec[:i], spec[i+1:], nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func envOrErr(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", usagef("no value given for variable %q and no environment variable %q set", name, name)
	}
	return v, nil
}
