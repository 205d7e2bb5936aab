package main

import (
	"os"

	"github.com/just-nibble/bounty-service/cmd/platform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
