package render

import "fmt"

// stderrTailLimit bounds how much engine stderr a process error carries.
const stderrTailLimit = 500

// RenderProcessError reports a failed or timed-out engine invocation along
// with the tail of its stderr, which is where the engine writes the actual
// failure reason.
type RenderProcessError struct {
	ExitCode int
	Stderr   string
	TimedOut bool
}

func (e *RenderProcessError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("render timed out: %s", e.Stderr)
	}
	return fmt.Sprintf("render failed with exit code %d: %s", e.ExitCode, e.Stderr)
}

// stderrTail returns the last limit characters of output, trimmed at a line
// boundary where possible so the message stays readable.
func stderrTail(output string, limit int) string {
	if len(output) <= limit {
		return output
	}
	tail := output[len(output)-limit:]
	for i := 0; i < len(tail); i++ {
		if tail[i] == '\n' {
			if i+1 < len(tail) {
				return tail[i+1:]
			}
			break
		}
	}
	return tail
}
