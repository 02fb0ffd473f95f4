// Package script is the bridge between user-authored scene scripts and the scene model.
//
// An Interpreter is the capability boundary around an embeddable scripting engine. The Bridge
// owns one process-wide Interpreter, initializes it lazily exactly once, and turns each run into
// either a validated []scene.Object or a single *ScriptExecutionError.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"scene-sandbox/internal/builder"
	"scene-sandbox/internal/scene"
)

// Interpreter executes scene scripts. Execute must run source in a context isolated from every
// previous call, expose acc to the script as its only host capability, and return the
// serialized accumulator (acc.JSON()) produced by a final expression evaluated after the source.
// Execute should stop early when ctx is done.
type Interpreter interface {
	Initialize(ctx context.Context) error
	Execute(ctx context.Context, source string, acc *builder.Builder) ([]byte, error)
}

// InitializationError means the interpreter could not be loaded. It is fatal for the session.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return "script runtime failed to initialize: " + e.Err.Error()
}

func (e *InitializationError) Unwrap() error { return e.Err }

// ScriptExecutionError is any failure of a single run: syntax error, runtime exception,
// malformed output, cancellation. Message is meant for the console.
type ScriptExecutionError struct {
	Message string
	Err     error
}

func (e *ScriptExecutionError) Error() string {
	return e.Message
}

func (e *ScriptExecutionError) Unwrap() error { return e.Err }

// Bridge runs scripts through one shared Interpreter. Callers serialize ExecuteScene; the edit
// loop does this with its run mutex.
type Bridge struct {
	interp Interpreter

	mu      sync.Mutex
	done    bool
	initErr error
}

// NewBridge returns a Bridge over in. Nothing is initialized until Initialize or the first
// ExecuteScene.
func NewBridge(in Interpreter) *Bridge {
	return &Bridge{interp: in}
}

// Initialize loads the interpreter once. Later calls return the first result; a failure is
// never retried.
func (b *Bridge) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return b.initErr
	}
	b.done = true
	if err := b.interp.Initialize(ctx); err != nil {
		b.initErr = &InitializationError{Err: err}
	}
	return b.initErr
}

// Ready reports whether Initialize has completed successfully.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done && b.initErr == nil
}

// ExecuteScene runs source with a fresh accumulator and returns the decoded objects.
// It returns *InitializationError if the runtime cannot be loaded, otherwise any failure is a
// *ScriptExecutionError.
func (b *Bridge) ExecuteScene(ctx context.Context, source string) (objs []scene.Object, err error) {
	if err := b.Initialize(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			objs = nil
			err = &ScriptExecutionError{Message: fmt.Sprintf("interpreter panic: %v", r)}
		}
	}()

	acc := builder.New()
	data, err := b.interp.Execute(ctx, source, acc)
	if err != nil {
		return nil, &ScriptExecutionError{Message: describe(ctx, err), Err: err}
	}
	objs, err = scene.Decode(data)
	if err != nil {
		return nil, &ScriptExecutionError{Message: "invalid scene: " + err.Error(), Err: err}
	}
	return objs, nil
}

func describe(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "script timed out"
	case errors.Is(ctx.Err(), context.Canceled):
		return "script cancelled"
	}
	return err.Error()
}
