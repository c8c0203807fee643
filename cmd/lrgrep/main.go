package main

import (
	"os"

	"github.com/nihei9/lrgrep/internal/lerr"
)

func main() {
	err := Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode implements §6.3/§7's exit-code contract (0, 1, 3) from whatever
// error kind runCompile returned.
func exitCode(err error) int {
	switch e := err.(type) {
	case *lerr.Error:
		return e.Kind.ExitCode()
	case lerr.Errors:
		return e.ExitCode()
	default:
		return 1
	}
}
