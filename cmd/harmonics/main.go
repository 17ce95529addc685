// Command harmonics finds the natural and artificial harmonics that sound a
// note on a bowed string instrument.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pjcdawkins/harmonics/internal/cli"
)

func run() int {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// Commands report their own failures; anything else is a usage error.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitCommandError
	}
	return exitErr.Code
}

func main() {
	os.Exit(run())
}
