package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-sandbox/internal/commands"
	"scene-sandbox/internal/logger"
	"scene-sandbox/internal/ui"
)

const prompt = "> "

// Terminal is the command bar above the console. It is shown/hidden with ESC. While open it
// captures the keyboard; the editor gets it otherwise.
// Lines starting with "cmd " are parsed as subcommand + flags and executed via the registry.
type Terminal struct {
	log      *logger.Logger
	reg      *commands.Registry
	node     *ui.Node
	inputBuf string
	open     bool
	history  []string
	// position in history while browsing with Up/Down; len(history) when not browsing
	histPos int
}

// New returns a closed Terminal that logs lines and runs "cmd ..." through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg, node: ui.NewNode("panel", "command", "command", "")}
}

// IsOpen returns true when the bar is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Nodes returns the bar node while open.
func (t *Terminal) Nodes() []*ui.Node {
	if !t.open {
		return nil
	}
	t.node.Text = prompt + t.inputBuf + "|"
	return []*ui.Node{t.node}
}

// Update handles ESC (toggle open/closed), and when open: typing, history, backspace, enter.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
		t.histPos = len(t.history)
		return
	}
	if !t.open {
		return
	}
	// Paste: Ctrl+V (Windows/Linux) or Cmd+V (macOS)
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += pasted
		}
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyUp) && t.histPos > 0 {
		t.histPos--
		t.inputBuf = t.history[t.histPos]
	}
	if rl.IsKeyPressed(rl.KeyDown) && t.histPos < len(t.history) {
		t.histPos++
		t.inputBuf = ""
		if t.histPos < len(t.history) {
			t.inputBuf = t.history[t.histPos]
		}
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "" {
		line := t.inputBuf
		t.inputBuf = ""
		t.history = append(t.history, line)
		t.histPos = len(t.history)
		t.Submit(line)
	}
}

// Submit runs one line as if typed.
func (t *Terminal) Submit(line string) {
	t.log.Info(prompt + line)
	args, isCmd := commands.Parse(line)
	if !isCmd {
		t.log.Warn(`Commands start with "cmd " (try: cmd help)`)
		return
	}
	if err := t.reg.Execute(args); err != nil {
		t.log.Error(err.Error())
	}
}
