// Package goengine runs scene scripts written in Go on the yaegi interpreter.
//
// A script is a statement body, or a complete file with func main. Either way the entry point
// runs exactly once, followed by the serialization expression.
// Only two packages are visible to scripts, math and scene; scene is bound to the run's
// accumulator. Each Execute builds a fresh interpreter, so declarations never leak between runs.
package goengine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"scene-sandbox/internal/builder"
)

// DefaultSource is the sample script shown on first launch.
//
//go:embed default.go.txt
var DefaultSource string

// scenePath is the import path scripts see for the builder ("scenescript/scene", package scene).
const scenePath = "scenescript/scene/scene"

const finalExpr = "scene.JSON()"

// Options configures an Engine.
type Options struct {
	// Print receives scene.Print and println output, one call per line. Nil discards it.
	Print func(line string)
}

// Engine implements script.Interpreter for Go.
type Engine struct {
	opts  Options
	math  map[string]reflect.Value
	ready bool
}

// New returns an uninitialized engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Initialize resolves the symbol tables and evaluates a trivial expression in a scratch
// interpreter to make sure the runtime works.
func (e *Engine) Initialize(ctx context.Context) error {
	m, ok := stdlib.Symbols["math/math"]
	if !ok {
		return fmt.Errorf("goengine: math symbols unavailable")
	}
	e.math = m
	in, _, err := e.newInterp(builder.New())
	if err != nil {
		return err
	}
	if _, err := in.EvalWithContext(ctx, "scene.Count()"); err != nil {
		return fmt.Errorf("goengine: smoke test: %w", err)
	}
	e.ready = true
	return nil
}

// Execute runs source against acc in a fresh interpreter and returns the serialized accumulator.
func (e *Engine) Execute(ctx context.Context, source string, acc *builder.Builder) ([]byte, error) {
	if !e.ready {
		return nil, fmt.Errorf("goengine: not initialized")
	}
	in, out, err := e.newInterp(acc)
	if err != nil {
		return nil, err
	}
	defer e.flush(out)

	src, entry := prepare(source)
	if strings.TrimSpace(src) != "" {
		if _, err := in.EvalWithContext(ctx, src); err != nil {
			return nil, err
		}
	}

	final := finalExpr
	if entry {
		final = "func() string { " + entryFunc + "(); return " + finalExpr + " }()"
	}
	v, err := in.EvalWithContext(ctx, final)
	if err != nil {
		return nil, err
	}
	if v.Kind() != reflect.String {
		return nil, fmt.Errorf("goengine: %s returned %s, want string", finalExpr, v.Kind())
	}
	if v.String() == "" {
		// scene.JSON reports marshal failures by returning "".
		if _, err := acc.JSON(); err != nil {
			return nil, err
		}
	}
	return []byte(v.String()), nil
}

// entryFunc replaces main. yaegi calls a declared main on every later evaluation, so the script
// never declares one.
const entryFunc = "sceneMain"

// prepare turns source into declarations for the interpreter and reports whether it declares
// entryFunc. A complete file (declarations with a func main) has main renamed in place; anything
// else is a statement body and is wrapped in entryFunc. The wrapper opens on the first line, so
// line numbers in errors match the editor.
func prepare(source string) (string, bool) {
	// A missing package clause is supplied for parsing only.
	for _, clause := range []string{"", "package main;"} {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, "", clause+source, parser.SkipObjectResolution)
		if err != nil {
			continue
		}
		for _, d := range f.Decls {
			fn, ok := d.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != "main" {
				continue
			}
			off := fset.Position(fn.Name.Pos()).Offset - len(clause)
			return source[:off] + entryFunc + source[off+len("main"):], true
		}
		return source, false
	}
	return "func " + entryFunc + "() { " + source + "\n}", true
}

func (e *Engine) newInterp(acc *builder.Builder) (*interp.Interpreter, *output, error) {
	out := &output{}
	in := interp.New(interp.Options{Stdout: out, Stderr: out})
	if err := in.Use(e.exports(acc, out)); err != nil {
		return nil, nil, fmt.Errorf("goengine: %w", err)
	}
	in.ImportUsed()
	return in, out, nil
}

func (e *Engine) exports(acc *builder.Builder, out *output) interp.Exports {
	return interp.Exports{
		"math/math": e.math,
		scenePath: {
			"Common":    reflect.ValueOf((*builder.Common)(nil)),
			"Cube":      reflect.ValueOf((*builder.Cube)(nil)),
			"Sphere":    reflect.ValueOf((*builder.Sphere)(nil)),
			"Plane":     reflect.ValueOf((*builder.Plane)(nil)),
			"Torus":     reflect.ValueOf((*builder.Torus)(nil)),
			"Animation": reflect.ValueOf((*builder.Animation)(nil)),
			"Vector":    reflect.ValueOf((*builder.Vector)(nil)),

			"Vec":       reflect.ValueOf(builder.Vec),
			"AddCube":   reflect.ValueOf(acc.AddCube),
			"AddSphere": reflect.ValueOf(acc.AddSphere),
			"AddPlane":  reflect.ValueOf(acc.AddPlane),
			"AddTorus":  reflect.ValueOf(acc.AddTorus),
			"Count":     reflect.ValueOf(acc.Len),
			"JSON": reflect.ValueOf(func() string {
				data, err := acc.JSON()
				if err != nil {
					return ""
				}
				return string(data)
			}),
			"Print": reflect.ValueOf(func(a ...any) {
				fmt.Fprintln(out, a...)
			}),
		},
	}
}

func (e *Engine) flush(out *output) {
	text := out.String()
	if e.opts.Print == nil || text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		e.opts.Print(line)
	}
}

// output collects script prints. A cancelled evaluation may still be writing when Execute
// returns, hence the lock.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}
