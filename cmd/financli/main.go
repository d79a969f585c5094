// Package main is the entry point for the financli CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/financli/cmd/financli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
