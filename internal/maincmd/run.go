package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/jsonnet-run/jsonnet/internal/config"
	"github.com/jsonnet-run/jsonnet/program"
)

func (c *Cmd) run(ctx context.Context, stdio mainer.Stdio) error {
	env, err := config.Load()
	if err != nil {
		return usagef("loading environment configuration: %s", err)
	}

	maxStack := env.MaxStack
	if c.MaxStack > 0 {
		maxStack = c.MaxStack
	}
	maxTrace := env.MaxTrace
	if c.MaxTrace > 0 {
		maxTrace = c.MaxTrace
	}

	// -J is documented "rightmost wins": the last flag on the command
	// line is searched first, so the collected slice (in command-line
	// order) is reversed before the JSONNET_PATH defaults, which are
	// searched last.
	searchPaths := make([]string, 0, len(c.LibPaths)+len(env.SearchPaths()))
	for i := len(c.LibPaths) - 1; i >= 0; i-- {
		searchPaths = append(searchPaths, c.LibPaths[i])
	}
	searchPaths = append(searchPaths, env.SearchPaths()...)

	traceSink := func(msg string) { fmt.Fprintln(stdio.Stderr, msg) }

	p, err := program.New(program.Options{
		MaxStackFrames:     maxStack,
		MaxTraceLength:     maxTrace,
		LibrarySearchPaths: searchPaths,
		TraceSink:          traceSink,
	})
	if err != nil {
		return err
	}

	if err := c.applyVars(p); err != nil {
		return err
	}

	filename := c.args[0]
	var name string
	var contents []byte
	if c.Eval {
		name, contents = "<cmdline>", []byte(filename)
	} else {
		name = filename
		contents, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	src := p.AddSource(name, contents)
	astHandle, err := p.Parse(src)
	if err != nil {
		return err
	}

	mode := program.ModeJSON
	switch {
	case c.String:
		mode = program.ModeString
	case c.YAML:
		mode = program.ModeYAMLStream
	case c.MultiDir != "":
		mode = program.ModeMultiFile
	}

	valHandle, err := p.Evaluate(astHandle, mode)
	if err != nil {
		return err
	}

	opts := program.ManifestOptions{Indent: "  "}
	if mode == program.ModeMultiFile {
		files, err := p.ManifestMultiFile(valHandle, opts)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(c.MultiDir, 0o755); err != nil {
			return err
		}
		for name, contents := range files {
			path := filepath.Join(c.MultiDir, name)
			if err := os.WriteFile(path, contents, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(stdio.Stdout, path)
		}
		return nil
	}

	out, err := p.Manifest(valHandle, mode, opts)
	if err != nil {
		return err
	}
	if mode == program.ModeJSON || mode == program.ModeYAMLStream {
		out = append(out, '\n')
	}
	if c.OutFile != "" {
		return os.WriteFile(c.OutFile, out, 0o644)
	}
	_, err = stdio.Stdout.Write(out)
	return err
}

func (c *Cmd) applyVars(p *program.Program) error {
	for _, spec := range c.ExtStr {
		name, val, hasVal := splitVarSpec(spec)
		if !hasVal {
			v, err := envOrErr(name)
			if err != nil {
				return err
			}
			val = v
		}
		p.SetExtVar(name, val)
	}
	for _, spec := range c.ExtStrFile {
		name, file, err := splitVarFile(spec)
		if err != nil {
			return err
		}
		val, err := readFile(file)
		if err != nil {
			return usagef("reading %s: %s", file, err)
		}
		p.SetExtVar(name, val)
	}
	for _, spec := range c.ExtCode {
		name, code, hasVal := splitVarSpec(spec)
		if !hasVal {
			v, err := envOrErr(name)
			if err != nil {
				return err
			}
			code = v
		}
		if err := p.SetExtVarCode(name, code); err != nil {
			return err
		}
	}
	for _, spec := range c.ExtCodeFile {
		name, file, err := splitVarFile(spec)
		if err != nil {
			return err
		}
		code, err := readFile(file)
		if err != nil {
			return usagef("reading %s: %s", file, err)
		}
		if err := p.SetExtVarCode(name, code); err != nil {
			return err
		}
	}

	for _, spec := range c.TLAStr {
		name, val, hasVal := splitVarSpec(spec)
		if !hasVal {
			v, err := envOrErr(name)
			if err != nil {
				return err
			}
			val = v
		}
		p.SetTLAVar(name, val)
	}
	for _, spec := range c.TLAStrFile {
		name, file, err := splitVarFile(spec)
		if err != nil {
			return err
		}
		val, err := readFile(file)
		if err != nil {
			return usagef("reading %s: %s", file, err)
		}
		p.SetTLAVar(name, val)
	}
	for _, spec := range c.TLACode {
		name, code, hasVal := splitVarSpec(spec)
		if !hasVal {
			v, err := envOrErr(name)
			if err != nil {
				return err
			}
			code = v
		}
		if err := p.SetTLACode(name, code); err != nil {
			return err
		}
	}
	for _, spec := range c.TLACodeFile {
		name, file, err := splitVarFile(spec)
		if err != nil {
			return err
		}
		code, err := readFile(file)
		if err != nil {
			return usagef("reading %s: %s", file, err)
		}
		if err := p.SetTLACode(name, code); err != nil {
			return err
		}
	}
	return nil
}
