package stdlib

import "github.com/jsonnet-run/jsonnet/lang/value"

func miscBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "trace", Params: []string{"str", "rest"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "trace")
			if err != nil {
				return nil, err
			}
			ev.Trace(s.Go())
			return args[1].Force()
		}},
		{Name: "extVar", Params: []string{"x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			name, err := forceString(args[0], "extVar")
			if err != nil {
				return nil, err
			}
			t, ok := ev.ExtVar(name.Go())
			if !ok {
				return nil, errf("extVar: undefined external variable: %q", name.Go())
			}
			return t.Force()
		}},
	}
}
