package scene

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// DecodeError describes the first record of a serialized scene that failed validation.
// Index is the record position (-1 for document-level problems).
type DecodeError struct {
	Index  int
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	switch {
	case e.Index < 0:
		return "scene: " + e.Reason
	case e.Field == "":
		return fmt.Sprintf("scene: object %d: %s", e.Index, e.Reason)
	default:
		return fmt.Sprintf("scene: object %d: %s: %s", e.Index, e.Field, e.Reason)
	}
}

// Decode parses the transport form produced by a script run: a JSON array of records with
// id, type, name, position, rotation, scale, color, opacity, wireframe, args and animation.
// It is strict: wrong vector arity, bad colors, unknown types, wrong args length, opacity
// outside [0,1], malformed animation and duplicate ids are all rejected with a *DecodeError.
// Colors are normalized to #rrggbb. Missing opacity reads as 1, missing wireframe as false.
func Decode(data []byte) ([]Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Index: -1, Reason: "output is not valid JSON"}
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, &DecodeError{Index: -1, Reason: "output is not a list of objects"}
	}
	records := doc.Array()
	objects := make([]Object, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		obj, err := decodeObject(i, rec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[obj.ID]; dup {
			return nil, &DecodeError{Index: i, Field: "id", Reason: fmt.Sprintf("duplicate id %q", obj.ID)}
		}
		seen[obj.ID] = struct{}{}
		objects = append(objects, obj)
	}
	return objects, nil
}

func decodeObject(i int, rec gjson.Result) (Object, error) {
	var obj Object
	fail := func(field, format string, args ...any) (Object, error) {
		return Object{}, &DecodeError{Index: i, Field: field, Reason: fmt.Sprintf(format, args...)}
	}
	if !rec.IsObject() {
		return fail("", "not an object")
	}

	id := rec.Get("id")
	if id.Type != gjson.String || id.Str == "" {
		return fail("id", "must be a non-empty string")
	}
	obj.ID = id.Str

	typ := rec.Get("type")
	if typ.Type != gjson.String {
		return fail("type", "must be a string")
	}
	kind, err := ParseKind(typ.Str)
	if err != nil {
		return fail("type", "%v", err)
	}
	obj.Kind = kind

	name := rec.Get("name")
	if name.Type != gjson.String {
		return fail("name", "must be a string")
	}
	obj.Name = name.Str

	for _, f := range []struct {
		key string
		dst *Vec3
	}{
		{"position", &obj.Position},
		{"rotation", &obj.Rotation},
		{"scale", &obj.Scale},
	} {
		v, reason := decodeVec3(rec.Get(f.key))
		if reason != "" {
			return fail(f.key, "%s", reason)
		}
		*f.dst = v
	}

	col := rec.Get("color")
	if col.Type != gjson.String {
		return fail("color", "must be a string")
	}
	if obj.Color, err = NormalizeColor(col.Str); err != nil {
		return fail("color", "%v", err)
	}

	obj.Opacity = 1
	if op := rec.Get("opacity"); op.Exists() && op.Type != gjson.Null {
		if op.Type != gjson.Number || op.Num < 0 || op.Num > 1 {
			return fail("opacity", "must be a number in [0,1]")
		}
		obj.Opacity = op.Num
	}

	if wf := rec.Get("wireframe"); wf.Exists() && wf.Type != gjson.Null {
		if !wf.IsBool() {
			return fail("wireframe", "must be a boolean")
		}
		obj.Wireframe = wf.Bool()
	}

	args := rec.Get("args")
	if !args.IsArray() {
		return fail("args", "must be a list of numbers")
	}
	arr := args.Array()
	if len(arr) != kind.ArgCount() {
		return fail("args", "%s takes %d args, got %d", kind, kind.ArgCount(), len(arr))
	}
	obj.Args = make([]float64, len(arr))
	for j, a := range arr {
		if a.Type != gjson.Number || !finite(a.Num) || a.Num <= 0 {
			return fail("args", "arg %d must be a positive number", j)
		}
		obj.Args[j] = a.Num
	}

	anim := rec.Get("animation")
	switch {
	case !anim.Exists(), anim.Type == gjson.Null:
	case anim.IsObject():
		a := &Animation{}
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"rotateX", &a.RotateX},
			{"rotateY", &a.RotateY},
			{"rotateZ", &a.RotateZ},
			{"speed", &a.Speed},
		} {
			v := anim.Get(f.key)
			if !v.Exists() || v.Type == gjson.Null {
				continue
			}
			if v.Type != gjson.Number || !finite(v.Num) {
				return fail("animation."+f.key, "must be a number")
			}
			*f.dst = v.Num
		}
		if kind == Plane && a.Delta() != (Vec3{}) {
			return fail("animation", "planes cannot be animated")
		}
		obj.Animation = a
	default:
		return fail("animation", "must be an object or null")
	}
	return obj, nil
}

func decodeVec3(v gjson.Result) (Vec3, string) {
	var out Vec3
	if !v.IsArray() {
		return out, "must be a list of 3 numbers"
	}
	arr := v.Array()
	if len(arr) != 3 {
		return out, fmt.Sprintf("must have 3 components, got %d", len(arr))
	}
	for i, c := range arr {
		if c.Type != gjson.Number || !finite(c.Num) {
			return out, fmt.Sprintf("component %d is not a number", i)
		}
		out[i] = c.Num
	}
	return out, ""
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
