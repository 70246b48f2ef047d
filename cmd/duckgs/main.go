// Package main is the entry point for the duckgs binary.
package main

import (
	"os"

	cli "duckgs/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
