package main

import (
	"os"

	"github.com/ontomirror/dbsan/cmd/dbsan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
