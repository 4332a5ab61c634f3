package stdlib

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func encodingBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "base64", Params: []string{"input"}, Fn: builtinBase64},
		{Name: "base64Decode", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			b, err := base64DecodeArg(args[0])
			if err != nil {
				return nil, err
			}
			return value.NewString(string(b)), nil
		}},
		{Name: "base64DecodeBytes", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			b, err := base64DecodeArg(args[0])
			if err != nil {
				return nil, err
			}
			return bytesToArray(b), nil
		}},
		{Name: "encodeUTF8", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "encodeUTF8")
			if err != nil {
				return nil, err
			}
			return bytesToArray([]byte(s.Go())), nil
		}},
		{Name: "decodeUTF8", Params: []string{"arr"}, Fn: builtinDecodeUTF8},
	}
}

func builtinBase64(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	v, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	var raw []byte
	switch x := v.(type) {
	case value.String:
		raw = []byte(x.Go())
	case value.Array:
		b, err := arrayToBytes(x)
		if err != nil {
			return nil, err
		}
		raw = b
	default:
		return nil, errf("base64: expected string or byte array, got %s", v.Kind())
	}
	return value.NewString(base64.StdEncoding.EncodeToString(raw)), nil
}

func base64DecodeArg(t *value.Thunk) ([]byte, error) {
	s, err := forceString(t, "base64Decode")
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s.Go())
	if err != nil {
		return nil, errf("base64Decode: invalid base64 input")
	}
	return b, nil
}

func arrayToBytes(arr value.Array) ([]byte, error) {
	out := make([]byte, len(arr))
	for i, t := range arr {
		n, err := forceNumber(t, "byte array")
		if err != nil {
			return nil, err
		}
		out[i] = byte(n)
	}
	return out, nil
}

func bytesToArray(b []byte) value.Array {
	out := make(value.Array, len(b))
	for i, c := range b {
		out[i] = value.Ready(value.Number(c))
	}
	return out
}

// builtinDecodeUTF8 decodes a byte array to a string; invalid sequences
// yield U+FFFD (spec.md §4.5), matching utf8.DecodeRune's own convention.
func builtinDecodeUTF8(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	arr, err := forceArray(args[0], "decodeUTF8")
	if err != nil {
		return nil, err
	}
	b, err := arrayToBytes(arr)
	if err != nil {
		return nil, err
	}
	var out value.String
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return out, nil
}
