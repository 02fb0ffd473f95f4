package script

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-sandbox/internal/builder"
)

type fakeInterp struct {
	initErr   error
	inits     int
	execute   func(source string, acc *builder.Builder) ([]byte, error)
	lastAccum *builder.Builder
}

func (f *fakeInterp) Initialize(context.Context) error {
	f.inits++
	return f.initErr
}

func (f *fakeInterp) Execute(_ context.Context, source string, acc *builder.Builder) ([]byte, error) {
	f.lastAccum = acc
	return f.execute(source, acc)
}

func TestInitializeIsIdempotent(t *testing.T) {
	f := &fakeInterp{}
	b := NewBridge(f)
	require.NoError(t, b.Initialize(context.Background()))
	require.NoError(t, b.Initialize(context.Background()))
	assert.Equal(t, 1, f.inits)
	assert.True(t, b.Ready())
}

func TestInitializationFailureIsTerminal(t *testing.T) {
	f := &fakeInterp{initErr: errors.New("no runtime")}
	b := NewBridge(f)

	err := b.Initialize(context.Background())
	var ie *InitializationError
	require.True(t, errors.As(err, &ie))
	assert.Contains(t, err.Error(), "no runtime")

	_, err = b.ExecuteScene(context.Background(), "anything")
	require.True(t, errors.As(err, &ie), "execution must surface the init failure, got %v", err)
	assert.Equal(t, 1, f.inits, "no retry")
	assert.False(t, b.Ready())
}

func TestExecuteSceneLazilyInitializes(t *testing.T) {
	f := &fakeInterp{execute: func(_ string, acc *builder.Builder) ([]byte, error) {
		acc.AddCube(builder.Cube{})
		return acc.JSON()
	}}
	b := NewBridge(f)
	objs, err := b.ExecuteScene(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objs, 1)
	assert.Equal(t, 1, f.inits)
}

func TestFreshAccumulatorPerRun(t *testing.T) {
	f := &fakeInterp{execute: func(_ string, acc *builder.Builder) ([]byte, error) {
		acc.AddSphere(builder.Sphere{})
		return acc.JSON()
	}}
	b := NewBridge(f)
	_, err := b.ExecuteScene(context.Background(), "")
	require.NoError(t, err)
	first := f.lastAccum
	objs, err := b.ExecuteScene(context.Background(), "")
	require.NoError(t, err)
	assert.NotSame(t, first, f.lastAccum)
	assert.Len(t, objs, 1)
}

func TestExecutionErrors(t *testing.T) {
	tests := []struct {
		name    string
		execute func(string, *builder.Builder) ([]byte, error)
		want    string
	}{
		{
			name:    "interpreter error",
			execute: func(string, *builder.Builder) ([]byte, error) { return nil, errors.New("ReferenceError: foo is not defined") },
			want:    "ReferenceError",
		},
		{
			name:    "malformed output",
			execute: func(string, *builder.Builder) ([]byte, error) { return []byte(`{"not":"a list"}`), nil },
			want:    "invalid scene",
		},
		{
			name:    "panic",
			execute: func(string, *builder.Builder) ([]byte, error) { panic("boom") },
			want:    "interpreter panic: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBridge(&fakeInterp{execute: tt.execute})
			objs, err := b.ExecuteScene(context.Background(), "x")
			assert.Nil(t, objs)
			var se *ScriptExecutionError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.Contains(t, se.Message, tt.want)
		})
	}
}

func TestCancelledRunMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBridge(&fakeInterp{execute: func(string, *builder.Builder) ([]byte, error) {
		cancel()
		return nil, context.Canceled
	}})
	_, err := b.ExecuteScene(ctx, "")
	var se *ScriptExecutionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "script cancelled", se.Message)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open("lua", Options{})
	assert.Error(t, err)
	assert.Equal(t, []string{EngineGo, EngineJS}, Engines())
	assert.NotEmpty(t, DefaultSource(EngineJS))
	assert.NotEmpty(t, DefaultSource(EngineGo))
	assert.Equal(t, "JavaScript", Label(EngineJS))
	assert.Equal(t, "lua", Label("lua"))
}
