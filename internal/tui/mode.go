package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode selects how a command reports render progress.
type OutputMode int

const (
	// ModeTUI drives the interactive bubbletea step list.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per event, suitable for pipes and CI.
	ModePlain
	// ModeJSON emits machine-readable reports only.
	ModeJSON
)

// DetectMode picks the progress mode for out. The interactive mode
// needs a character-device stdout and a usable TERM; anything else
// falls back to plain lines.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	if jsonOutput {
		return ModeJSON
	}
	if noProgress {
		return ModePlain
	}

	file, ok := out.(*os.File)
	if !ok || !isTerminal(file) {
		return ModePlain
	}

	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}

func isTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
