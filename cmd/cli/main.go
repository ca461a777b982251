// Package main is the entry point for the sre CLI binary.
package main

import (
	"os"

	cli "sre-dashboard/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
