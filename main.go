package main

import (
	"os"

	"github.com/naka-gawa/github-profile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
