package cmd

import (
	"fmt"
)

// ── Output helpers ────────────────────────────────────────────────────────────
// Status lines for long-running commands. `index` and `search` never use
// these: their stdout is either empty or one path per line.
//
// Icon semantics:
//   ✓  success
//   ~  neutral info / state change

// printOK prints a success line.
//
//	name = "" → "  ✓  msg"
//	name set  → "  ✓  [name] msg"
func printOK(name, msg string) {
	if name == "" {
		fmt.Printf("  ✓  %s\n", msg)
	} else {
		fmt.Printf("  ✓  [%s] %s\n", name, msg)
	}
}

// printInfo prints a neutral informational / state-change line.
func printInfo(name, msg string) {
	if name == "" {
		fmt.Printf("  ~  %s\n", msg)
	} else {
		fmt.Printf("  ~  [%s] %s\n", name, msg)
	}
}
