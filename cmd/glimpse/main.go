// Command glimpse inspects the live desktop the way the glimpse harness sees
// it: list windows, try template assets against the screen, capture regions
// and read or write the clipboard. It is meant for authoring and debugging
// template images.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/cboone/glimpse"
)

var version = "dev"

func main() {
	root := newRootCmd(glimpse.NewRobotDriver())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
