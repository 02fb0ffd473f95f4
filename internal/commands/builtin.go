package commands

import (
	"fmt"
	"strings"
)

// Host is what the in-app commands act on. The view implements it.
type Host interface {
	// RunNow runs the editor text without waiting for the debounce.
	RunNow()
	// Export starts an export in format ("glb" or "gltf"); empty means the configured one.
	Export(format string)
	SetGridVisible(on bool)
	SetFPSVisible(on bool)
	// Load replaces the editor text with the file's content.
	Load(path string) error
	// Save writes the editor text to path.
	Save(path string) error
	// Reset restores the engine's default script.
	Reset()
	// Print writes a line to the console.
	Print(line string)
}

// Builtins returns the registry of in-app commands bound to h.
func Builtins(h Host) *Registry {
	r := NewRegistry()

	r.Register("run", "", nil, func([]string) error {
		h.RunNow()
		return nil
	})

	exportFS := NewFlagSet("export")
	format := exportFS.String("format", "", "glb or gltf")
	r.Register("export", "[-format glb|gltf]", exportFS, func([]string) error {
		f := strings.ToLower(*format)
		*format = ""
		switch f {
		case "", "glb", "gltf":
		default:
			return fmt.Errorf("export: unknown format %q", f)
		}
		h.Export(f)
		return nil
	})

	r.Register("grid", "on|off", nil, func(args []string) error {
		on, err := toggle("grid", args)
		if err != nil {
			return err
		}
		h.SetGridVisible(on)
		return nil
	})

	r.Register("fps", "on|off", nil, func(args []string) error {
		on, err := toggle("fps", args)
		if err != nil {
			return err
		}
		h.SetFPSVisible(on)
		return nil
	})

	r.Register("load", "<file>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("load: want one file name")
		}
		return h.Load(args[0])
	})

	r.Register("save", "<file>", nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("save: want one file name")
		}
		return h.Save(args[0])
	})

	r.Register("reset", "", nil, func([]string) error {
		h.Reset()
		return nil
	})

	r.Register("help", "", nil, func([]string) error {
		for _, line := range r.Help() {
			h.Print(line)
		}
		return nil
	})
	return r
}

func toggle(name string, args []string) (bool, error) {
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			return true, nil
		case "off", "false", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("%s: want on or off", name)
}
