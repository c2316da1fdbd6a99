// Command promptcmd validates and lists command templates.
package main

import (
	"fmt"
	"os"

	"github.com/opencode-ai/promptcmd/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
