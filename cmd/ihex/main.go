// Command ihex validates Intel HEX firmware images and reports their flash
// usage and bootloader version.
package main

import (
	"fmt"
	"os"

	"github.com/moffa90/go-ihex/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
