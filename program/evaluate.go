package program

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// Mode selects the shape an evaluated value (and later its manifest) must
// take (spec.md §6).
type Mode int

const (
	// ModeJSON accepts any JSON-representable value: object, array, or
	// scalar.
	ModeJSON Mode = iota
	// ModeString requires the root value to be a string (CLI `-S`).
	ModeString
	// ModeYAMLStream requires the root value to be an array; each element
	// is manifested as one YAML document (CLI `-y`).
	ModeYAMLStream
	// ModeMultiFile requires the root value to be an object whose visible
	// fields are filenames mapping to JSON-representable values (CLI
	// `-m`).
	ModeMultiFile
)

// Evaluate evaluates the root expression of a previously parsed AST
// handle, applying any registered top-level arguments if the result is a
// function, and checks that the resulting value matches mode's required
// shape.
func (p *Program) Evaluate(h ASTHandle, mode Mode) (ValueHandle, error) {
	entry, ok := p.asts[h]
	if !ok {
		return 0, fmt.Errorf("program: unknown AST handle")
	}
	v, err := p.ev.EvalFile(entry.filename, entry.root)
	if err != nil {
		return 0, err
	}
	if fn, ok := v.(value.Function); ok {
		if tlas := p.ev.TLAs(); len(tlas) > 0 {
			v, err = p.ev.ApplyTLA(fn, tlas)
			if err != nil {
				return 0, err
			}
		}
	}
	if err := checkMode(v, mode); err != nil {
		return 0, err
	}
	return p.storeValue(v), nil
}

func checkMode(v value.Value, mode Mode) error {
	switch mode {
	case ModeString:
		if _, ok := v.(value.String); !ok {
			return fmt.Errorf("program: expected a string result, got %s", v.Kind())
		}
	case ModeYAMLStream:
		if _, ok := v.(value.Array); !ok {
			return fmt.Errorf("program: expected an array result for YAML-stream output, got %s", v.Kind())
		}
	case ModeMultiFile:
		if _, ok := v.(*value.Object); !ok {
			return fmt.Errorf("program: expected an object result for multi-file output, got %s", v.Kind())
		}
	}
	return nil
}
