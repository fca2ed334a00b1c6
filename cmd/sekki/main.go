package main

import "github.com/thinktide/seasons/internal/cli"

// main is the entry point of the application.
//
// It delegates execution to the [cli.Execute] function, which sorts the configured document when no subcommand is
// given. Errors exit with a status naming the failed stage: 2 read, 3 parse, 4 validate, 5 write, 6 unsorted under
// --check, 1 otherwise.
func main() {
	cli.Execute()
}
