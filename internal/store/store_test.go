package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/scene"
)

// fakeExec builds one cube per occurrence of "cube" in the source. "fail" makes a run fail and
// "hang" blocks until the run's context is done.
type fakeExec struct {
	initErr error

	mu      sync.Mutex
	sources []string
}

func (f *fakeExec) Initialize(context.Context) error { return f.initErr }

func (f *fakeExec) ExecuteScene(ctx context.Context, src string) ([]scene.Object, error) {
	f.mu.Lock()
	f.sources = append(f.sources, src)
	f.mu.Unlock()

	switch {
	case strings.Contains(src, "hang"):
		<-ctx.Done()
		return nil, ctx.Err()
	case strings.Contains(src, "fail"):
		return nil, errors.New("NameError: fail")
	}
	var out []scene.Object
	for i := 0; i < strings.Count(src, "cube"); i++ {
		out = append(out, scene.Object{
			ID:        "cube_" + string(rune('0'+i)),
			Kind:      scene.Cube,
			Args:      []float64{1, 1, 1},
			Animation: &scene.Animation{RotateY: 0.02},
		})
	}
	return out, nil
}

func (f *fakeExec) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sources...)
}

func newStore(t *testing.T, exec *fakeExec, text string, opts Options) *Store {
	t.Helper()
	if opts.Debounce == 0 {
		opts.Debounce = 20 * time.Millisecond
	}
	s := New(exec, logger.New(""), text, opts)
	t.Cleanup(s.Close)
	return s
}

func lastEntry(s *Store) logger.Entry {
	e := s.Log().Entries()
	return e[len(e)-1]
}

func TestMountRunsCurrentText(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "cube cube cube cube", Options{Runtime: "JavaScript"})
	assert.Equal(t, Loading, s.Status())

	require.NoError(t, s.Mount(context.Background()))
	s.Wait()

	assert.Equal(t, Idle, s.Status())
	assert.Len(t, s.Objects(), 4)
	assert.Equal(t, uint64(1), s.Version())

	lines := s.Log().Entries()
	require.Len(t, lines, 3)
	assert.Equal(t, "Initializing JavaScript Runtime...", lines[0].Text)
	assert.Equal(t, "JavaScript Runtime Ready.", lines[1].Text)
	assert.Equal(t, "Scene updated: 4 objects rendered.", lines[2].Text)
	assert.Equal(t, logger.Success, lines[2].Level)
}

func TestDebounceCoalescesEdits(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "cube", Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()

	for _, text := range []string{"c", "cu", "cub", "cube cube"} {
		s.SetText(text)
		time.Sleep(5 * time.Millisecond)
	}
	s.Wait()

	assert.Equal(t, []string{"cube", "cube cube"}, exec.calls())
	assert.Len(t, s.Objects(), 2)
	assert.Equal(t, "cube cube", s.Text())
}

func TestFailedRunKeepsPreviousScene(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "cube cube", Options{})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()
	before := s.Objects()

	s.SetText("fail")
	s.Wait()

	assert.Equal(t, before, s.Objects())
	assert.Equal(t, uint64(1), s.Version())
	assert.Equal(t, Idle, s.Status())
	e := lastEntry(s)
	assert.Equal(t, logger.Error, e.Level)
	assert.Equal(t, "NameError: fail", e.Text)
}

func TestEmptySceneReplacesPrevious(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "cube", Options{})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()

	s.SetText("")
	s.Wait()
	assert.Empty(t, s.Objects())
	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, "Scene updated: 0 objects rendered.", lastEntry(s).Text)
}

func TestEditsWhileLoadingAreOnlyRecorded(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "cube", Options{})
	s.SetText("cube cube")
	s.Wait()
	assert.Empty(t, exec.calls())
	assert.Equal(t, "cube cube", s.Text())

	require.NoError(t, s.Mount(context.Background()))
	s.Wait()
	assert.Equal(t, []string{"cube cube"}, exec.calls())
}

func TestInitFailureIsTerminal(t *testing.T) {
	exec := &fakeExec{initErr: errors.New("wasm unavailable")}
	s := newStore(t, exec, "cube", Options{Runtime: "Go"})

	require.Error(t, s.Mount(context.Background()))
	assert.Equal(t, Failed, s.Status())
	e := lastEntry(s)
	assert.Equal(t, logger.Fatal, e.Level)
	assert.Contains(t, e.Text, "wasm unavailable")

	s.SetText("cube cube")
	s.RunNow()
	s.Wait()
	assert.Empty(t, exec.calls())
	assert.Equal(t, Failed, s.Status())
	assert.Equal(t, "cube cube", s.Text())
}

func TestNewerEditCancelsRunInFlight(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "hang", Options{})
	require.NoError(t, s.Mount(context.Background()))
	require.Eventually(t, func() bool { return s.Status() == Running }, time.Second, time.Millisecond)

	s.SetText("cube")
	s.Wait()

	assert.Equal(t, []string{"hang", "cube"}, exec.calls())
	assert.Len(t, s.Objects(), 1)
	assert.Equal(t, uint64(1), s.Version())
	var warned bool
	for _, e := range s.Log().Entries() {
		if e.Level == logger.Warn {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRunTimeout(t *testing.T) {
	exec := &fakeExec{}
	s := newStore(t, exec, "hang", Options{Timeout: 20 * time.Millisecond})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()

	assert.Equal(t, Idle, s.Status())
	assert.Equal(t, logger.Error, lastEntry(s).Level)
	assert.Zero(t, s.Version())
}

func TestObjectsAreDeepCopies(t *testing.T) {
	s := newStore(t, &fakeExec{}, "cube", Options{})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()

	got := s.Objects()
	got[0].Animation.RotateY = 9
	got[0].Args[0] = 9
	got[0].Position[0] = 9

	fresh, v := s.Snapshot()
	assert.Equal(t, 0.02, fresh[0].Animation.RotateY)
	assert.Equal(t, 1.0, fresh[0].Args[0])
	assert.Zero(t, fresh[0].Position[0])
	assert.Equal(t, uint64(1), v)
}

func TestOnUpdate(t *testing.T) {
	var mu sync.Mutex
	var versions []uint64
	s := newStore(t, &fakeExec{}, "cube", Options{OnUpdate: func(v uint64) {
		mu.Lock()
		versions = append(versions, v)
		mu.Unlock()
	}})
	require.NoError(t, s.Mount(context.Background()))
	s.Wait()
	s.SetText("fail")
	s.Wait()
	s.SetText("cube cube")
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2}, versions)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Loading Engine", Loading.Label())
	assert.Equal(t, "Compiling...", Running.Label())
	assert.Equal(t, "idle", Idle.String())
}
