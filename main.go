// Package main is the entry point for the goesviz application
package main

import (
	"github.com/goesviz/goesviz/cmd"
)

func main() {
	cmd.Execute()
}
