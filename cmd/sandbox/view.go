package main

import (
	"context"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"scene-sandbox/internal/commands"
	"scene-sandbox/internal/config"
	"scene-sandbox/internal/editor"
	"scene-sandbox/internal/export"
	"scene-sandbox/internal/fonts"
	"scene-sandbox/internal/graphics"
	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/render"
	"scene-sandbox/internal/script"
	"scene-sandbox/internal/store"
	"scene-sandbox/internal/terminal"
	"scene-sandbox/internal/ui"
	"scene-sandbox/internal/viewport"
	"scene-sandbox/internal/watch"
)

const windowTitle = "Scene Sandbox"

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the editor and 3D viewport",
	Long: `Open the sandbox window: script editor on the left, live viewport in the middle,
inspector on the right and the console at the bottom.

Keys:
  Ctrl+Enter   run now
  Ctrl+E       export (format from config)
  Esc          command bar (cmd help lists the commands)
  right mouse  orbit the camera, wheel to zoom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("file")
		css, _ := cmd.Flags().GetString("css")
		font, _ := cmd.Flags().GetString("font")
		return runView(cfg, file, css, font)
	},
}

func init() {
	viewCmd.Flags().String("file", "", "script file to load and follow")
	viewCmd.Flags().String("css", "", "stylesheet applied over the built-in theme")
	viewCmd.Flags().String("font", "", "UI font: a .ttf/.otf path or a family name to look up")
	rootCmd.AddCommand(viewCmd)
}

// app is the window's state. Everything except the store, exporter and watcher runs on the
// main goroutine.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store

	buf       *editor.Buffer
	edit      *ui.EditorView
	vp        *viewport.Viewport
	renderer  *render.Renderer
	engine    *ui.Engine
	hud       *ui.HUD
	console   *ui.ConsoleView
	inspector *ui.Inspector
	term      *terminal.Terminal

	// file contents from the watcher, applied on the main goroutine
	reloads chan string
}

func runView(cfg config.Config, file, css, font string) error {
	log := logger.New(cfg.LogFile)
	defer log.Close()

	a := &app{
		cfg:     cfg,
		log:     log,
		vp:      viewport.New(),
		engine:  ui.New(),
		hud:     ui.NewHUD(windowTitle),
		reloads: make(chan string, 1),
	}
	a.hud.ShowFPS = cfg.Viewport.ShowFPS

	s, err := newSession(cfg, log, nil)
	if err != nil {
		return err
	}

	text := script.DefaultSource(cfg.Engine)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if file != "" {
		w, err := watch.New(file, a.reload, log)
		if err != nil {
			return err
		}
		if err := w.Load(); err != nil {
			return err
		}
		text = <-a.reloads
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error(fmt.Sprintf("watch: %v", err))
			}
		}()
	}

	a.store = store.New(s.bridge, log, text, store.Options{
		Runtime:  s.runtimeName(),
		Debounce: cfg.Debounce,
		Timeout:  cfg.ExecTimeout,
	})
	a.buf = editor.New(text)
	a.edit = ui.NewEditorView(a.buf)
	a.edit.OnChange = a.store.SetText
	a.edit.OnRun = a.store.RunNow
	a.console = ui.NewConsoleView(log)
	a.inspector = ui.NewInspector()
	a.term = terminal.New(log, commands.Builtins(a))

	if css != "" {
		if err := a.engine.LoadCSS(css); err != nil {
			log.Warn(fmt.Sprintf("stylesheet %s: %v", css, err))
		}
	}

	setup := func() {
		a.renderer = render.New()
		a.renderer.SetGridVisible(cfg.Viewport.GridVisible)
		if font != "" {
			path, err := fonts.Resolve(font)
			if err == nil {
				err = a.engine.LoadFont(path)
			}
			if err != nil {
				log.Warn(fmt.Sprintf("font %s: %v", font, err))
			}
		}
		go a.store.Mount(ctx)
	}
	teardown := func() {
		cancel()
		a.store.Close()
		a.renderer.Close()
	}
	graphics.Run(graphics.Window{
		Title:      windowTitle,
		Width:      int32(cfg.Viewport.Width),
		Height:     int32(cfg.Viewport.Height),
		Background: render.Background,
	}, setup, a.update, a.draw, teardown)
	return nil
}

// reload is the watcher's sink. Only the newest content is kept.
func (a *app) reload(text string) {
	for {
		select {
		case a.reloads <- text:
			return
		default:
		}
		select {
		case <-a.reloads:
		default:
		}
	}
}

func (a *app) update() {
	a.term.Update()
	focused := !a.term.IsOpen()
	if focused && ctrlDown() && rl.IsKeyPressed(rl.KeyE) {
		a.Export("")
	}
	a.edit.Update(focused)

	select {
	case text := <-a.reloads:
		a.setText(text)
	default:
	}

	if a.store.Version() != a.vp.Version() || a.vp.Frames() == 0 {
		objects, version := a.store.Snapshot()
		if a.vp.Sync(objects, version) {
			a.renderer.Release(a.vp.Nodes())
		}
	}
	a.vp.Step()
	if a.renderer.Orbiting() || !a.overPanel() {
		a.renderer.Update()
	}

	var nodes []*ui.Node
	nodes = append(nodes, a.hud.Nodes(a.store.Status(), a.vp.Len())...)
	nodes = append(nodes, a.edit.Nodes()...)
	nodes = append(nodes, a.inspector.Nodes()...)
	nodes = append(nodes, a.console.Nodes()...)
	nodes = append(nodes, a.term.Nodes()...)
	a.engine.SetNodes(nodes)
	a.engine.Layout()
	a.inspector.Update(a.engine, a.vp.Nodes())
}

func (a *app) draw() {
	a.renderer.Draw(a.vp.Nodes())
	a.engine.Draw()
	a.edit.Draw(a.engine, !a.term.IsOpen())
	a.inspector.Draw(a.engine, a.vp.Nodes())
	a.console.Draw(a.engine)
	a.hud.Draw(a.engine, int32(a.inspector.Nodes()[0].Bounds.X))
}

// overPanel reports whether the mouse is over a 2D panel, using last frame's layout.
func (a *app) overPanel() bool {
	m := rl.GetMousePosition()
	for _, n := range [][]*ui.Node{a.edit.Nodes(), a.inspector.Nodes(), a.console.Nodes()} {
		if rl.CheckCollisionPointRec(m, n[0].Bounds) {
			return true
		}
	}
	return false
}

func (a *app) setText(text string) {
	a.buf.SetText(text)
	a.store.SetText(text)
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

// commands.Host

func (a *app) RunNow() { a.store.RunNow() }

// Export writes the scene as it is on screen, with the current animated rotation.
func (a *app) Export(format string) {
	if format == "" {
		format = a.cfg.Export.Format
	}
	ex := export.New(export.Options{
		Dir:    a.cfg.Export.Dir,
		Format: format,
		Yield:  a.cfg.Export.Yield,
		Notify: a.hud.Notify,
		Log:    a.log,
	})
	ex.ExportAsync(context.Background(), a.vp.Snapshot())
}

func (a *app) SetGridVisible(on bool) { a.renderer.SetGridVisible(on) }

func (a *app) SetFPSVisible(on bool) { a.hud.ShowFPS = on }

func (a *app) Load(path string) error {
	text, err := readScript(path)
	if err != nil {
		return err
	}
	a.setText(text)
	a.log.Info("Loaded " + path)
	return nil
}

func (a *app) Save(path string) error {
	if err := os.WriteFile(path, []byte(a.buf.Text()), 0644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	a.log.Success("Saved " + path)
	return nil
}

func (a *app) Reset() { a.setText(script.DefaultSource(a.cfg.Engine)) }

func (a *app) Print(line string) { a.log.Info(line) }
