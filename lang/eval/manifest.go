package eval

import (
	"github.com/jsonnet-run/jsonnet/lang/manifest"
	"github.com/jsonnet-run/jsonnet/lang/token"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// manifestEnv is used for field access that has no lexical call site (a
// value being manifested by std.manifestJson or by the `+` string
// coercion after its originating expression has already returned).
var manifestEnv = value.NewFileEnv("")

// VisibleFields and GetField implement manifest.FieldAccessor, letting
// lang/manifest force object fields without importing lang/eval (which
// would create an import cycle, since eval imports manifest for
// toStringValue's JSON coercion).
func (ev *Evaluator) VisibleFields(o *value.Object) []string {
	return o.VisibleFieldNames()
}

func (ev *Evaluator) GetField(o *value.Object, name string) (value.Value, error) {
	return ev.getField(manifestEnv, token.Pos(0), o, len(o.Layers)-1, name)
}

// ToStringValue implements value.Evaluator.ToStringValue for builtins that
// have no lexical call site of their own, such as std.escapeStringJson.
func (ev *Evaluator) ToStringValue(v value.Value) (string, error) {
	return ev.toStringValue(manifestEnv, token.Pos(0), v)
}

// ManifestJSON renders v as indented JSON (spec.md §4.5 std.manifestJson).
func (ev *Evaluator) ManifestJSON(v value.Value) (string, error) {
	return manifest.ManifestJSON(ev, v)
}

// ManifestJSONMinified renders v as compact JSON.
func (ev *Evaluator) ManifestJSONMinified(v value.Value) (string, error) {
	return manifest.ManifestJSONMinified(ev, v)
}

// ManifestYAMLDoc renders v as a single YAML document.
func (ev *Evaluator) ManifestYAMLDoc(v value.Value, indentArrayInObject bool) (string, error) {
	return manifest.ManifestYAMLDoc(ev, v, indentArrayInObject)
}

// ManifestYAMLStream renders arr as a stream of YAML documents.
func (ev *Evaluator) ManifestYAMLStream(arr value.Array) (string, error) {
	return manifest.ManifestYAMLStream(ev, arr)
}

// ManifestINI implements std.manifestIni.
func (ev *Evaluator) ManifestINI(root *value.Object) (string, error) {
	return manifest.ManifestINI(ev, root)
}

// ManifestTOML implements std.manifestTomlEx.
func (ev *Evaluator) ManifestTOML(root *value.Object, indent string) (string, error) {
	return manifest.ManifestTOML(ev, root, indent)
}

// ManifestPython implements std.manifestPython.
func (ev *Evaluator) ManifestPython(v value.Value) (string, error) {
	return manifest.ManifestPython(ev, v)
}

// ManifestPythonVars implements std.manifestPythonVars.
func (ev *Evaluator) ManifestPythonVars(root *value.Object) (string, error) {
	return manifest.ManifestPythonVars(ev, root)
}

// ManifestXMLJsonml implements std.manifestXmlJsonml.
func (ev *Evaluator) ManifestXMLJsonml(v value.Value) (string, error) {
	return manifest.ManifestXMLJsonml(ev, v)
}
