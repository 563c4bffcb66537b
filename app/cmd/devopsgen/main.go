package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"devopsgen/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
