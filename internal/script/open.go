package script

import (
	"fmt"
	"sort"

	"scene-sandbox/internal/script/goengine"
	"scene-sandbox/internal/script/jsengine"
)

// Engine names accepted by Open.
const (
	EngineJS = "js"
	EngineGo = "go"
)

// Options are passed to whichever engine Open builds.
type Options struct {
	// Print receives lines the script prints (console.log, scene.Print).
	Print func(line string)
}

type engine struct {
	open          func(Options) Interpreter
	defaultSource string
	label         string
}

var engines = map[string]engine{
	EngineJS: {
		open:          func(o Options) Interpreter { return jsengine.New(jsengine.Options{Print: o.Print}) },
		defaultSource: jsengine.DefaultSource,
		label:         "JavaScript",
	},
	EngineGo: {
		open:          func(o Options) Interpreter { return goengine.New(goengine.Options{Print: o.Print}) },
		defaultSource: goengine.DefaultSource,
		label:         "Go",
	},
}

// Open returns an uninitialized interpreter for the named engine.
func Open(name string, opts Options) (Interpreter, error) {
	e, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown script engine %q (available: %v)", name, Engines())
	}
	return e.open(opts), nil
}

// DefaultSource returns the sample script for the named engine, or "" if unknown.
func DefaultSource(name string) string {
	return engines[name].defaultSource
}

// Label is the engine's display name for log messages ("JavaScript", "Go").
func Label(name string) string {
	if l := engines[name].label; l != "" {
		return l
	}
	return name
}

// Engines lists the known engine names.
func Engines() []string {
	out := make([]string, 0, len(engines))
	for k := range engines {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
