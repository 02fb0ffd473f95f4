// Package jsengine runs scene scripts written in JavaScript on the goja interpreter.
//
// Every Execute call gets a brand-new goja.Runtime with a `scene` object bound to that run's
// accumulator, so no global state survives between runs. The prelude and the final
// serialization expression are compiled once in Initialize and reused.
package jsengine

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"scene-sandbox/internal/builder"
)

//go:embed prelude.js
var prelude string

// DefaultSource is the sample script shown on first launch.
//
//go:embed default.js
var DefaultSource string

// ScriptName is the file name reported in syntax errors and stack traces.
const ScriptName = "scene.js"

const finalExpr = "scene.toJSON()"

// Options configures an Engine.
type Options struct {
	// Print receives console.log output. Nil discards it.
	Print func(line string)
}

// Engine implements script.Interpreter for JavaScript.
type Engine struct {
	opts    Options
	prelude *goja.Program
	final   *goja.Program
}

// New returns an uninitialized engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Initialize compiles the prelude and final expression and checks that a runtime can run them.
func (e *Engine) Initialize(ctx context.Context) error {
	p, err := goja.Compile("prelude.js", prelude, true)
	if err != nil {
		return fmt.Errorf("jsengine: compile prelude: %w", err)
	}
	f, err := goja.Compile("final.js", finalExpr, true)
	if err != nil {
		return fmt.Errorf("jsengine: compile final expression: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	vm := goja.New()
	e.bind(vm, builder.New())
	if _, err := vm.RunProgram(p); err != nil {
		return fmt.Errorf("jsengine: run prelude: %w", err)
	}
	e.prelude, e.final = p, f
	return nil
}

// Execute runs source in a fresh runtime and returns the serialized accumulator.
func (e *Engine) Execute(ctx context.Context, source string, acc *builder.Builder) ([]byte, error) {
	if e.prelude == nil {
		return nil, fmt.Errorf("jsengine: not initialized")
	}
	user, err := goja.Compile(ScriptName, source, false)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	e.bind(vm, acc)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if _, err := vm.RunProgram(e.prelude); err != nil {
		return nil, err
	}
	if _, err := vm.RunProgram(user); err != nil {
		return nil, err
	}
	out, err := vm.RunProgram(e.final)
	if err != nil {
		return nil, err
	}
	s, ok := out.Export().(string)
	if !ok {
		return nil, fmt.Errorf("jsengine: %s returned %T, want string", finalExpr, out.Export())
	}
	return []byte(s), nil
}

// bind installs the scene and console globals.
func (e *Engine) bind(vm *goja.Runtime, acc *builder.Builder) {
	s := vm.NewObject()
	must(s.Set("addCube", func(call goja.FunctionCall) goja.Value {
		o := options(vm, call, "addCube", "size", "animation")
		return vm.ToValue(acc.AddCube(builder.Cube{
			Common:    o.common(),
			Size:      o.num("size"),
			Animation: o.anim("animation"),
		}))
	}))
	must(s.Set("addSphere", func(call goja.FunctionCall) goja.Value {
		o := options(vm, call, "addSphere", "radius", "animation")
		return vm.ToValue(acc.AddSphere(builder.Sphere{
			Common:    o.common(),
			Radius:    o.num("radius"),
			Animation: o.anim("animation"),
		}))
	}))
	must(s.Set("addPlane", func(call goja.FunctionCall) goja.Value {
		o := options(vm, call, "addPlane", "width", "height")
		return vm.ToValue(acc.AddPlane(builder.Plane{
			Common: o.common(),
			Width:  o.num("width"),
			Height: o.num("height"),
		}))
	}))
	must(s.Set("addTorus", func(call goja.FunctionCall) goja.Value {
		o := options(vm, call, "addTorus", "radius", "tube", "animation")
		return vm.ToValue(acc.AddTorus(builder.Torus{
			Common:    o.common(),
			Radius:    o.num("radius"),
			Tube:      o.num("tube"),
			Animation: o.anim("animation"),
		}))
	}))
	must(s.Set("count", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(acc.Len())
	}))
	must(s.Set("toJSON", func(goja.FunctionCall) goja.Value {
		data, err := acc.JSON()
		if err != nil {
			panic(vm.NewGoError(err))
		}
		return vm.ToValue(string(data))
	}))
	must(vm.Set("scene", s))

	console := vm.NewObject()
	must(console.Set("log", func(call goja.FunctionCall) goja.Value {
		if e.opts.Print == nil {
			return goja.Undefined()
		}
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		e.opts.Print(strings.Join(parts, " "))
		return goja.Undefined()
	}))
	must(vm.Set("console", console))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
