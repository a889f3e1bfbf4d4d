package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/userstore/pkg/core"
)

// Exit codes.
const (
	exitOK          = 0
	exitSystemFault = 1
	exitCallerFault = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command tree and maps the outcome to an exit code.
// Caller faults print their message only; system faults print the whole chain.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	return report(stderr, err)
}

func report(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case core.IsReject(err):
		fmt.Fprintln(stderr, err)
		return exitCallerFault
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitSystemFault
	}
}
