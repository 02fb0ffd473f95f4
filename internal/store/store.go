// Package store is the edit loop: it holds the current script text and the last successfully
// built scene, debounces edits into script runs, and keeps the console log.
//
// A newer run cancels the context of the run in flight, so a runaway script is abandoned as soon
// as the user edits again; each run is also bounded by Options.Timeout. Results of a superseded
// run are discarded. Runs are serialized, since the interpreter is shared.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/scene"
	"scene-sandbox/internal/script"
)

// DefaultDebounce is the quiet period after the last edit before a run starts.
const DefaultDebounce = 800 * time.Millisecond

// Status is the edit loop state.
type Status int

const (
	Loading Status = iota
	Idle
	Running
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return "loading"
}

// Label is the status indicator text.
func (s Status) Label() string {
	switch s {
	case Idle:
		return "Ready"
	case Running:
		return "Compiling..."
	case Failed:
		return "Engine Failed"
	}
	return "Loading Engine"
}

// Executor runs scripts. *script.Bridge implements it.
type Executor interface {
	Initialize(ctx context.Context) error
	ExecuteScene(ctx context.Context, source string) ([]scene.Object, error)
}

// Options configures a Store.
type Options struct {
	// Runtime names the engine in log messages, e.g. "JavaScript".
	Runtime string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Timeout bounds a single run. Zero means no limit.
	Timeout time.Duration
	// OnUpdate is called after the scene is replaced, with the new version. It runs on the
	// run's goroutine and must not call back into the Store while blocking.
	OnUpdate func(version uint64)
}

// Store is safe for concurrent use.
type Store struct {
	exec Executor
	log  *logger.Logger
	opts Options

	mu      sync.Mutex
	base    context.Context
	status  Status
	text    string
	objects []scene.Object
	version uint64
	timer   *time.Timer
	gen     uint64
	cancel  context.CancelFunc

	runMu   sync.Mutex
	pending sync.WaitGroup
}

// New returns a Store in the Loading state holding text. Nothing runs until Mount.
func New(exec Executor, log *logger.Logger, text string, opts Options) *Store {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Runtime == "" {
		opts.Runtime = "Script"
	}
	return &Store{
		exec: exec,
		log:  log,
		opts: opts,
		base: context.Background(),
		text: text,
	}
}

// Mount initializes the interpreter and, on success, runs the current text once.
// A failure is terminal: the store stays Failed and edits are only recorded.
// ctx also parents every later run; cancelling it cancels them.
func (s *Store) Mount(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.status = Loading
	s.mu.Unlock()

	s.log.Info(fmt.Sprintf("Initializing %s Runtime...", s.opts.Runtime))
	if err := s.exec.Initialize(ctx); err != nil {
		s.mu.Lock()
		s.status = Failed
		s.mu.Unlock()
		s.log.Fatal(fmt.Sprintf("Failed to load %s environment: %v", s.opts.Runtime, err))
		return err
	}

	s.mu.Lock()
	s.status = Idle
	s.mu.Unlock()
	s.log.Success(fmt.Sprintf("%s Runtime Ready.", s.opts.Runtime))
	s.RunNow()
	return nil
}

// SetText records text and, once the runtime is ready, restarts the debounce timer.
func (s *Store) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.stopTimerLocked()
	if s.status == Loading || s.status == Failed {
		return
	}
	s.pending.Add(1)
	s.timer = time.AfterFunc(s.opts.Debounce, func() {
		defer s.pending.Done()
		s.run()
	})
}

// RunNow runs the current text without waiting for the debounce period.
func (s *Store) RunNow() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.pending.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.pending.Done()
		s.run()
	}()
}

// Wait blocks until no run is scheduled or in flight.
func (s *Store) Wait() {
	s.pending.Wait()
}

// Close stops the debounce timer and cancels the run in flight.
func (s *Store) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.Wait()
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.pending.Done()
	}
	s.timer = nil
}

func (s *Store) run() {
	s.mu.Lock()
	if s.status == Loading || s.status == Failed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	var ctx context.Context
	var cancel context.CancelFunc
	if s.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(s.base, s.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(s.base)
	}
	s.cancel = cancel
	src := s.text
	s.mu.Unlock()
	defer cancel()

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		// A newer run was requested while this one queued.
		s.mu.Unlock()
		return
	}
	s.status = Running
	s.mu.Unlock()

	objs, err := s.exec.ExecuteScene(ctx, src)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Warn("Discarded result of a superseded run.")
		return
	}
	s.cancel = nil

	var initErr *script.InitializationError
	if errors.As(err, &initErr) {
		s.status = Failed
		s.mu.Unlock()
		s.log.Fatal(initErr.Error())
		return
	}
	s.status = Idle
	if err != nil {
		s.mu.Unlock()
		s.log.Error(err.Error())
		return
	}
	s.objects = objs
	s.version++
	version := s.version
	s.mu.Unlock()

	s.log.Success(fmt.Sprintf("Scene updated: %d objects rendered.", len(objs)))
	if s.opts.OnUpdate != nil {
		s.opts.OnUpdate(version)
	}
}

// Objects returns a deep copy of the current scene.
func (s *Store) Objects() []scene.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyObjectsLocked()
}

// Snapshot returns the current scene and its version together.
func (s *Store) Snapshot() ([]scene.Object, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyObjectsLocked(), s.version
}

func (s *Store) copyObjectsLocked() []scene.Object {
	out := make([]scene.Object, 0, len(s.objects))
	if err := copier.CopyWithOption(&out, s.objects, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched types.
		panic(err)
	}
	return out
}

// Version increments on every successful run.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Store) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Log returns the console log.
func (s *Store) Log() *logger.Logger {
	return s.log
}
