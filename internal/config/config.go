// Package config loads runtime defaults for the jsonnet CLI and embedding
// API from the process environment, mirroring the way the real jsonnet
// tool honors JSONNET_PATH. Values loaded here are defaults only: the -s
// and -t flags in internal/maincmd override MaxStack and MaxTrace when set,
// and -J directories are searched before the Path directories.
package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

// Env holds the environment-variable-driven defaults for a Program.
type Env struct {
	// MaxStack bounds the evaluator's call depth (spec.md §6, §9).
	MaxStack int `env:"JSONNET_MAX_STACK" envDefault:"500"`
	// MaxTrace bounds how many frames an error trace prints.
	MaxTrace int `env:"JSONNET_MAX_TRACE" envDefault:"20"`
	// Path is a colon-separated list of directories searched for imports
	// after the importing file's own directory, matching the real
	// jsonnet tool's JSONNET_PATH.
	Path string `env:"JSONNET_PATH" envDefault:""`
}

// Load reads Env from the process environment, applying the envDefault
// tags for anything unset.
func Load() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// SearchPaths splits Path on ':' the way JSONNET_PATH is documented to
// work, discarding empty segments produced by leading/trailing/doubled
// colons.
func (e Env) SearchPaths() []string {
	if e.Path == "" {
		return nil
	}
	parts := strings.Split(e.Path, ":")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
