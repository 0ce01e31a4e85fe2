// Command permctl evaluates authorization snapshots against the canonical
// permission table and exports the table for review.
//
//	permctl eval --file snapshot.json --profile server
//	permctl eval --key readCard < snapshot.json
//	permctl rules > rules.yaml
//	permctl keys
package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `usage: permctl <command> [flags]

commands:
  eval     evaluate a snapshot and print the permission matrix
  rules    print the canonical rule table as YAML
  keys     print the permission keys, one per line
  version  print the build version
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "permctl:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "eval":
		return runEval(rest, stdin, stdout)
	case "rules":
		return runRules(rest, stdout)
	case "keys":
		return runKeys(rest, stdout)
	case "version":
		return runVersion(rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}
