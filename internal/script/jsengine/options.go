package jsengine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja"

	"scene-sandbox/internal/builder"
)

var commonKeys = []string{"name", "position", "rotation", "scale", "color", "opacity", "wireframe"}

var animationKeys = map[string]bool{"rotateX": true, "rotateY": true, "rotateZ": true, "speed": true}

// opts reads named parameters from the single options object passed to a scene.add* call.
// Undefined and null read as "not set" so the builder applies its default. Type errors are
// thrown into the script as TypeError, which keeps the script's line number in the message.
type opts struct {
	vm  *goja.Runtime
	fn  string
	obj *goja.Object
}

func options(vm *goja.Runtime, call goja.FunctionCall, fn string, extra ...string) opts {
	o := opts{vm: vm, fn: fn}
	arg := call.Argument(0)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		return o
	}
	obj, ok := arg.(*goja.Object)
	if !ok || obj.ClassName() == "Array" {
		o.throw("expects an options object, e.g. scene.%s({ name: \"A\" })", fn)
	}
	o.obj = obj

	allowed := make(map[string]bool, len(commonKeys)+len(extra))
	for _, k := range commonKeys {
		allowed[k] = true
	}
	for _, k := range extra {
		allowed[k] = true
	}
	for _, k := range obj.Keys() {
		if !allowed[k] {
			o.throw("unknown option %q (allowed: %s)", k, strings.Join(sortedKeys(allowed), ", "))
		}
	}
	return o
}

func (o opts) throw(format string, args ...any) {
	panic(o.vm.NewTypeError(fmt.Sprintf("scene.%s: ", o.fn) + fmt.Sprintf(format, args...)))
}

func (o opts) get(key string) goja.Value {
	if o.obj == nil {
		return nil
	}
	v := o.obj.Get(key)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v
}

func (o opts) common() builder.Common {
	return builder.Common{
		Name:      o.str("name"),
		Position:  o.vec("position"),
		Rotation:  o.vec("rotation"),
		Scale:     o.vec("scale"),
		Color:     o.str("color"),
		Opacity:   o.num("opacity"),
		Wireframe: o.boolean("wireframe"),
	}
}

func (o opts) str(key string) string {
	v := o.get(key)
	if v == nil {
		return ""
	}
	s, ok := v.Export().(string)
	if !ok {
		o.throw("%s must be a string", key)
	}
	return s
}

func (o opts) num(key string) float64 {
	v := o.get(key)
	if v == nil {
		return 0
	}
	f, ok := number(v)
	if !ok {
		o.throw("%s must be a number", key)
	}
	return f
}

func (o opts) boolean(key string) bool {
	v := o.get(key)
	if v == nil {
		return false
	}
	b, ok := v.Export().(bool)
	if !ok {
		o.throw("%s must be true or false", key)
	}
	return b
}

// vec reads an array of numbers. Its length is not checked here; the decoder reports arity.
func (o opts) vec(key string) builder.Vector {
	v := o.get(key)
	if v == nil {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		o.throw("%s must be an array like [x, y, z]", key)
	}
	n := int(obj.Get("length").ToInteger())
	out := make(builder.Vector, n)
	for i := 0; i < n; i++ {
		f, ok := number(obj.Get(fmt.Sprint(i)))
		if !ok {
			o.throw("%s[%d] must be a number", key, i)
		}
		out[i] = f
	}
	return out
}

func (o opts) anim(key string) *builder.Animation {
	v := o.get(key)
	if v == nil {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() == "Array" {
		o.throw("%s must be an object like { rotateY: 0.02 }", key)
	}
	for _, k := range obj.Keys() {
		if !animationKeys[k] {
			o.throw("%s: unknown field %q", key, k)
		}
	}
	inner := opts{vm: o.vm, fn: o.fn, obj: obj}
	return &builder.Animation{
		RotateX: inner.num("rotateX"),
		RotateY: inner.num("rotateY"),
		RotateZ: inner.num("rotateZ"),
		Speed:   inner.num("speed"),
	}
}

func number(v goja.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.Export().(type) {
	case int64, float64:
		return v.ToFloat(), true
	}
	return 0, false
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
