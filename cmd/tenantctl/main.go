package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func appBanner(appname string) string {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	return fmt.Sprintln(myFigure.String())
}
