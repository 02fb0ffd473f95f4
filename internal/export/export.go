// Package export writes the displayed scene to a glTF 2.0 file.
//
// Export runs off the render loop: the request is acknowledged with a notice, the exporter
// yields for a short delay, then builds the document and writes it atomically into the export
// directory as scene.glb or scene.gltf.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/scene"
)

// Formats accepted by Options.Format.
const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
)

// ExportError is a failed export. The render loop keeps running; the error is only logged.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path == "" {
		return "export failed: " + e.Err.Error()
	}
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// FileName returns the output file name for format.
func FileName(format string) string {
	if format == FormatGLTF {
		return "scene.gltf"
	}
	return "scene.glb"
}

// Options configures an Exporter.
type Options struct {
	Dir    string
	Format string
	// Yield is waited before serializing so the start notice can be shown first.
	Yield time.Duration
	// Notify receives the transient on-screen notices. Nil drops them.
	Notify func(text string)
	// Log receives completion and failure entries. Nil drops them.
	Log *logger.Logger
}

// Exporter writes scenes to disk. It is safe for concurrent use; concurrent exports to the
// same directory race only on the final rename.
type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Format == "" {
		opts.Format = FormatGLB
	}
	return &Exporter{opts: opts}
}

// Path is where Export writes.
func (e *Exporter) Path() string {
	return filepath.Join(e.opts.Dir, FileName(e.opts.Format))
}

// Export writes objects and returns the file path. Failures are *ExportError.
func (e *Exporter) Export(ctx context.Context, objects []scene.Object) (string, error) {
	label, ok := labels[e.opts.Format]
	if !ok {
		return "", e.fail("", fmt.Errorf("unknown format %q (want %s or %s)", e.opts.Format, FormatGLB, FormatGLTF))
	}
	e.notify("Generating " + label + " file...")

	if e.opts.Yield > 0 {
		t := time.NewTimer(e.opts.Yield)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", e.fail("", ctx.Err())
		case <-t.C:
		}
	}

	doc, err := Build(objects)
	if err != nil {
		return "", e.fail("", err)
	}
	path := e.Path()
	if err := writeAtomic(path, func(f *os.File) error { return Encode(f, doc, e.opts.Format) }); err != nil {
		return "", e.fail(path, err)
	}

	e.notify("Download Complete!")
	if e.opts.Log != nil {
		e.opts.Log.Success(fmt.Sprintf("Exported %d objects to %s", len(objects), path))
	}
	return path, nil
}

// Result is the outcome of ExportAsync.
type Result struct {
	Path string
	Err  error
}

// ExportAsync runs Export on its own goroutine. The channel receives exactly one Result.
func (e *Exporter) ExportAsync(ctx context.Context, objects []scene.Object) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		path, err := e.Export(ctx, objects)
		ch <- Result{Path: path, Err: err}
	}()
	return ch
}

var labels = map[string]string{FormatGLB: "GLB", FormatGLTF: "glTF"}

func (e *Exporter) notify(text string) {
	if e.opts.Notify != nil {
		e.opts.Notify(text)
	}
}

func (e *Exporter) fail(path string, err error) error {
	xe := &ExportError{Path: path, Err: err}
	e.notify("Export failed")
	if e.opts.Log != nil {
		e.opts.Log.Error(xe.Error())
	}
	return xe
}

// writeAtomic writes through a temporary file in the target directory and renames it into place.
func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
