package stdlib

import (
	"golang.org/x/exp/slices"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func arrayBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "makeArray", Params: []string{"sz", "func"}, Fn: builtinMakeArray},
		{Name: "native_map", Params: []string{"func", "arr"}, Fn: builtinMap},
		{Name: "native_mapWithIndex", Params: []string{"func", "arr"}, Fn: builtinMapWithIndex},
		{Name: "native_filter", Params: []string{"func", "arr"}, Fn: builtinFilter},
		{Name: "native_foldl", Params: []string{"func", "arr", "init"}, Fn: builtinFoldl},
		{Name: "native_foldr", Params: []string{"func", "arr", "init"}, Fn: builtinFoldr},
		{Name: "range", Params: []string{"from", "to"}, Fn: builtinRange},
		{Name: "native_sort", Params: []string{"arr", "keyF"}, Fn: builtinSort},
		{Name: "reverse", Params: []string{"arr"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			arr, err := forceArray(args[0], "reverse")
			if err != nil {
				return nil, err
			}
			out := make(value.Array, len(arr))
			for i, t := range arr {
				out[len(arr)-1-i] = t
			}
			return out, nil
		}},
		{Name: "native_uniq", Params: []string{"arr", "keyF"}, Fn: builtinUniq},
		{Name: "flattenArrays", Params: []string{"arrs"}, Fn: builtinFlattenArrays},
		{Name: "flattenDeepArray", Params: []string{"value"}, Fn: builtinFlattenDeepArray},
		{Name: "native_member", Params: []string{"arrOrStr", "x"}, Fn: builtinMember},
		{Name: "removeAt", Params: []string{"arr", "idx"}, Fn: builtinRemoveAt},
		{Name: "repeat", Params: []string{"what", "count"}, Fn: builtinRepeat},
	}
}

func builtinMakeArray(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	n, err := forceInt(args[0], "makeArray")
	if err != nil {
		return nil, err
	}
	fnVal, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	out := make(value.Array, n)
	for i := 0; i < n; i++ {
		i := i
		out[i] = value.NewThunk(func() (value.Value, error) {
			return ev.Call(fnVal, []*value.Thunk{value.Ready(value.Number(i))})
		})
	}
	return out, nil
}

func builtinMap(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	arr, err := forceArray(args[1], "map")
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(arr))
	for i, elem := range arr {
		elem := elem
		out[i] = value.NewThunk(func() (value.Value, error) {
			return ev.Call(fnVal, []*value.Thunk{elem})
		})
	}
	return out, nil
}

func builtinMapWithIndex(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	arr, err := forceArray(args[1], "mapWithIndex")
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(arr))
	for i, elem := range arr {
		i, elem := i, elem
		out[i] = value.NewThunk(func() (value.Value, error) {
			return ev.Call(fnVal, []*value.Thunk{value.Ready(value.Number(i)), elem})
		})
	}
	return out, nil
}

// builtinFilter forces the predicate eagerly (it must run to decide
// inclusion) but keeps surviving elements' own thunks lazy.
func builtinFilter(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	arr, err := forceArray(args[1], "filter")
	if err != nil {
		return nil, err
	}
	var out value.Array
	for _, elem := range arr {
		keep, err := ev.Call(fnVal, []*value.Thunk{elem})
		if err != nil {
			return nil, err
		}
		b, ok := keep.(value.Bool)
		if !ok {
			return nil, errf("filter: predicate must return a boolean, got %s", keep.Kind())
		}
		if bool(b) {
			out = append(out, elem)
		}
	}
	return out, nil
}

func builtinFoldl(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	arr, err := forceArray(args[1], "foldl")
	if err != nil {
		return nil, err
	}
	acc := args[2]
	for _, elem := range arr {
		v, err := ev.Call(fnVal, []*value.Thunk{acc, elem})
		if err != nil {
			return nil, err
		}
		acc = value.Ready(v)
	}
	return acc.Force()
}

func builtinFoldr(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	arr, err := forceArray(args[1], "foldr")
	if err != nil {
		return nil, err
	}
	acc := args[2]
	for i := len(arr) - 1; i >= 0; i-- {
		v, err := ev.Call(fnVal, []*value.Thunk{arr[i], acc})
		if err != nil {
			return nil, err
		}
		acc = value.Ready(v)
	}
	return acc.Force()
}

func builtinRange(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	from, err := forceInt(args[0], "range")
	if err != nil {
		return nil, err
	}
	to, err := forceInt(args[1], "range")
	if err != nil {
		return nil, err
	}
	if to < from {
		return value.Array{}, nil
	}
	out := make(value.Array, to-from+1)
	for i := range out {
		out[i] = value.Ready(value.Number(from + i))
	}
	return out, nil
}

// builtinSort implements std.sort with a caller-supplied key function
// (identity when keyF is null); x/exp/slices.SortStableFunc keeps it a
// proper permutation of the input, matching the sortedness property
// spec.md §8 requires, and stability avoids reordering equal-keyed
// elements.
func builtinSort(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	arr, err := forceArray(args[0], "sort")
	if err != nil {
		return nil, err
	}
	keyFn, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	keys := make([]value.Value, len(arr))
	vals := make([]value.Value, len(arr))
	for i, t := range arr {
		v, err := t.Force()
		if err != nil {
			return nil, err
		}
		vals[i] = v
		if _, isNull := keyFn.(value.Null); isNull {
			keys[i] = v
			continue
		}
		k, err := ev.Call(keyFn, []*value.Thunk{t})
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	idx := make([]int, len(arr))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	slices.SortStableFunc(idx, func(a, b int) int {
		if sortErr != nil {
			return 0
		}
		aLessB, err := valueLess(keys[a], keys[b])
		if err != nil {
			sortErr = err
			return 0
		}
		if aLessB {
			return -1
		}
		bLessA, err := valueLess(keys[b], keys[a])
		if err != nil {
			sortErr = err
			return 0
		}
		if bLessA {
			return 1
		}
		return 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	out := make(value.Array, len(arr))
	for i, j := range idx {
		out[i] = value.Ready(vals[j])
	}
	return out, nil
}

func valueLess(a, b value.Value) (bool, error) {
	switch x := a.(type) {
	case value.Number:
		y, ok := b.(value.Number)
		if !ok {
			return false, errf("sort: cannot compare number with %s", b.Kind())
		}
		return x < y, nil
	case value.String:
		y, ok := b.(value.String)
		if !ok {
			return false, errf("sort: cannot compare string with %s", b.Kind())
		}
		return stringLess(x, y), nil
	default:
		return false, errf("sort: cannot compare values of kind %s", a.Kind())
	}
}

func stringLess(a, b value.String) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// uniqEntry pairs a forced element with the key its dedup decision runs on.
type uniqEntry struct {
	val value.Value
	key value.Value
}

// builtinUniq implements std.uniq: drop-adjacent-duplicate-by-key, keeping
// the first of each run. Keys are computed eagerly (forcing each element
// and, if given, calling keyF) before x/exp/slices.CompactFunc collapses
// adjacent equal-keyed runs down to their first element.
func builtinUniq(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	arr, err := forceArray(args[0], "uniq")
	if err != nil {
		return nil, err
	}
	keyFn, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	entries := make([]uniqEntry, len(arr))
	for i, t := range arr {
		v, err := t.Force()
		if err != nil {
			return nil, err
		}
		key := v
		if _, isNull := keyFn.(value.Null); !isNull {
			key, err = ev.Call(keyFn, []*value.Thunk{t})
			if err != nil {
				return nil, err
			}
		}
		entries[i] = uniqEntry{val: v, key: key}
	}
	var eqErr error
	entries = slices.CompactFunc(entries, func(a, b uniqEntry) bool {
		if eqErr != nil {
			return false
		}
		eq, err := valueEqual(a.key, b.key)
		if err != nil {
			eqErr = err
			return false
		}
		return eq
	})
	if eqErr != nil {
		return nil, eqErr
	}
	out := make(value.Array, len(entries))
	for i, e := range entries {
		out[i] = value.Ready(e.val)
	}
	return out, nil
}

// valueEqual is a small structural equality used by uniq/set operations;
// the full recursive definition (spec.md §4.4 equality) lives in lang/eval
// and is exposed to builtins indirectly since std.jsonnet's set/uniq
// wrappers pre-sort by key, so only scalar-key comparisons land here.
func valueEqual(a, b value.Value) (bool, error) {
	switch x := a.(type) {
	case value.Null:
		_, ok := b.(value.Null)
		return ok, nil
	case value.Bool:
		y, ok := b.(value.Bool)
		return ok && x == y, nil
	case value.Number:
		y, ok := b.(value.Number)
		return ok && x == y, nil
	case value.String:
		y, ok := b.(value.String)
		return ok && runesEqual(x, y), nil
	default:
		return false, errf("cannot compare values of kind %s for equality here", a.Kind())
	}
}

func builtinFlattenArrays(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	arrs, err := forceArray(args[0], "flattenArrays")
	if err != nil {
		return nil, err
	}
	var out value.Array
	for _, t := range arrs {
		inner, err := forceArray(t, "flattenArrays")
		if err != nil {
			return nil, err
		}
		out = append(out, inner...)
	}
	return out, nil
}

func builtinFlattenDeepArray(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	var out value.Array
	var walk func(t *value.Thunk) error
	walk = func(t *value.Thunk) error {
		v, err := t.Force()
		if err != nil {
			return err
		}
		arr, ok := v.(value.Array)
		if !ok {
			out = append(out, value.Ready(v))
			return nil
		}
		for _, e := range arr {
			if err := walk(e); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(args[0]); err != nil {
		return nil, err
	}
	return out, nil
}

func builtinMember(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	v, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	x, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	switch coll := v.(type) {
	case value.Array:
		for _, t := range coll {
			e, err := t.Force()
			if err != nil {
				return nil, err
			}
			eq, err := valueEqual(e, x)
			if err != nil {
				continue
			}
			if eq {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	case value.String:
		xs, ok := x.(value.String)
		if !ok || len(xs) != 1 {
			return nil, errf("member: expected a single-character string")
		}
		return value.Bool(slices.Contains(coll, xs[0])), nil
	default:
		return nil, errf("member: expected array or string, got %s", v.Kind())
	}
}

func builtinRemoveAt(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	arr, err := forceArray(args[0], "removeAt")
	if err != nil {
		return nil, err
	}
	idx, err := forceInt(args[1], "removeAt")
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(arr) {
		return nil, errf("removeAt: index %d out of bounds for array of length %d", idx, len(arr))
	}
	out := make(value.Array, 0, len(arr)-1)
	out = append(out, arr[:idx]...)
	out = append(out, arr[idx+1:]...)
	return out, nil
}

func builtinRepeat(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	v, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	count, err := forceInt(args[1], "repeat")
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, errf("repeat: count must be non-negative")
	}
	switch x := v.(type) {
	case value.Array:
		out := make(value.Array, 0, len(x)*count)
		for i := 0; i < count; i++ {
			out = append(out, x...)
		}
		return out, nil
	case value.String:
		var out value.String
		for i := 0; i < count; i++ {
			out = append(out, x...)
		}
		return out, nil
	default:
		return nil, errf("repeat: expected array or string, got %s", v.Kind())
	}
}
