package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window configures the main window.
type Window struct {
	Title      string
	Width      int32
	Height     int32
	Background rl.Color
}

// Run opens the window and runs the main loop on the calling goroutine. Each frame it calls
// update (input, animation), then clears the screen and calls draw. setup runs once after
// the OpenGL context exists, teardown before it is destroyed. ESC is left to the command bar;
// close via the window button.
func Run(w Window, setup, update, draw, teardown func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	if setup != nil {
		setup()
	}
	if teardown != nil {
		defer teardown()
	}
	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(w.Background)
		draw()
		rl.EndDrawing()
	}
}
