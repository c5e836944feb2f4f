// Package output renders a collector.CollectResult as either a colored
// text tree or JSON.
package output

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes, with dedicated colors for cycle and exception
// markers.
var (
	ColorSuccess = color.New(color.FgGreen)
	ColorError   = color.New(color.FgRed)
	ColorWarning = color.New(color.FgYellow)
	ColorInfo    = color.New(color.FgCyan)
	ColorHeader  = color.New(color.Bold, color.FgWhite)

	// ColorCycle marks a cycle-closing node in the text tree.
	ColorCycle = color.New(color.FgMagenta, color.Bold)
	// ColorException marks an exception entry in the text tree's
	// trailing exceptions section.
	ColorException = color.New(color.FgRed, color.Bold)
)

// IsColorEnabled reports whether color output should be enabled, based
// on TTY, NO_COLOR, and TERM detection.
func IsColorEnabled() bool {
	if !isTerminal(os.Stdout) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	termEnv := os.Getenv("TERM")
	return termEnv != "dumb" && termEnv != ""
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors disables all color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}
