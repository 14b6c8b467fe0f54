// cmd/signalcmp/main.go
package main

import (
	cmd "github.com/mwiater/signalcmp/internal/cli"
)

// executeCmd is swapped out in tests.
var executeCmd = cmd.Execute

// main starts the signalcmp CLI application by delegating to the cobra root
// command defined in the cli package.
func main() {
	executeCmd()
}
