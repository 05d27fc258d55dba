package main

import (
	"os"

	"github.com/aaronzipp/escape-the-upside-down/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
